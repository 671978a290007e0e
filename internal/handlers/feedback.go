package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/core"

	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/services"
	"github.com/eosyam/scrum-game/utils"
)

type FeedbackHandlers struct {
	feedback *services.FeedbackService
	validate *validator.Validate
}

func NewFeedbackHandlers(feedback *services.FeedbackService) *FeedbackHandlers {
	return &FeedbackHandlers{
		feedback: feedback,
		validate: validator.New(),
	}
}

// Submit stores a feedback entry and acknowledges immediately. The email
// notification happens after the response, inside the service, and cannot
// fail the submission.
func (h *FeedbackHandlers) Submit(re *core.RequestEvent) error {
	var req models.FeedbackRequest
	if err := re.BindBody(&req); err != nil {
		return re.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return re.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if _, err := h.feedback.Submit(req); err != nil {
		re.App.Logger().Error("failed to store feedback", "error", err)
		return re.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store feedback"})
	}

	return re.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback received and stored",
	})
}

// List returns every stored feedback entry as JSON.
func (h *FeedbackHandlers) List(re *core.RequestEvent) error {
	feedbacks, err := h.feedback.List()
	if err != nil {
		re.App.Logger().Error("failed to list feedbacks", "error", err)
		return re.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list feedbacks"})
	}

	return re.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"total":     len(feedbacks),
		"feedbacks": feedbacks,
	})
}

// feedbackView decorates a feedback entry for the dashboard template.
type feedbackView struct {
	models.Feedback
	Stars       string
	MessageHTML template.HTML
}

type dashboardData struct {
	Total         int
	AverageRating string
	Feedbacks     []feedbackView
}

// Dashboard renders the HTML feedback overview: totals, average rating and
// one card per entry with the message rendered as styled markdown.
func (h *FeedbackHandlers) Dashboard(re *core.RequestEvent) error {
	feedbacks, err := h.feedback.List()
	if err != nil {
		re.App.Logger().Error("failed to load feedbacks", "error", err)
		return re.Error(http.StatusInternalServerError, "failed to load feedbacks", err)
	}

	data := dashboardData{
		Total:         len(feedbacks),
		AverageRating: "0.0",
	}

	var sum int
	for _, fb := range feedbacks {
		sum += fb.Rating

		messageHTML, err := utils.RenderMarkdown(fb.Message)
		if err != nil {
			re.App.Logger().Warn("failed to render feedback message", "id", fb.ID, "error", err)
			messageHTML = template.HTML(template.HTMLEscapeString(fb.Message))
		}

		data.Feedbacks = append(data.Feedbacks, feedbackView{
			Feedback:    fb,
			Stars:       strings.Repeat("⭐", fb.Rating),
			MessageHTML: messageHTML,
		})
	}
	if len(feedbacks) > 0 {
		data.AverageRating = fmt.Sprintf("%.1f", float64(sum)/float64(len(feedbacks)))
	}

	tmpl, ok := storedTemplates(re.App.Store().Get("tmpl"))
	if !ok {
		return re.Error(http.StatusInternalServerError, "tmpl not initialized in store", nil)
	}
	return tmpl.ExecuteTemplate(re.Response, "dashboard.html", data)
}

// Search runs the dashboard search box against the feedback index and renders
// the results partial.
func (h *FeedbackHandlers) Search(re *core.RequestEvent) error {
	query := re.Request.FormValue("searchInput")

	matches, err := h.feedback.Search(query)
	if err != nil {
		re.App.Logger().Error("feedback search failed", "error", err)
		return re.Error(http.StatusInternalServerError, "search failed", err)
	}

	tmpl, ok := storedTemplates(re.App.Store().Get("tmpl"))
	if !ok {
		return re.Error(http.StatusInternalServerError, "tmpl not initialized in store", nil)
	}
	return tmpl.ExecuteTemplate(re.Response, "searchresults.html", matches)
}

// storedTemplates unwraps the template set held in the app store. A missing or
// mistyped entry comes back false instead of panicking mid-request.
func storedTemplates(v any) (*template.Template, bool) {
	tmpl, ok := v.(*template.Template)
	return tmpl, ok && tmpl != nil
}
