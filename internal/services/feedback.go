package services

import (
	"fmt"
	"html/template"
	"log"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/pocketbase/pocketbase/core"

	"github.com/eosyam/scrum-game/internal/models"
)

// FeedbackService stores feedback submissions in the feedbacks collection,
// keeps an in-memory search index over them, and forwards each entry to the
// notifier on a best-effort basis.
type FeedbackService struct {
	app      core.App
	index    bleve.Index
	notifier *Web3FormsNotifier
}

// indexedFeedback is the document shape fed to bleve.
type indexedFeedback struct {
	Message string
	Room    string
	Email   string
}

// NewFeedbackService creates the service and its memory-only search index.
// A nil notifier disables outbound notification.
func NewFeedbackService(app core.App, notifier *Web3FormsNotifier) (*FeedbackService, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	return &FeedbackService{
		app:      app,
		index:    index,
		notifier: notifier,
	}, nil
}

// Submit persists a feedback entry and returns it. The notification is sent
// from a goroutine after the record is saved; its failure is logged and never
// surfaced to the submitter, who has already been acknowledged.
func (s *FeedbackService) Submit(req models.FeedbackRequest) (models.Feedback, error) {
	collection, err := s.app.FindCollectionByNameOrId("feedbacks")
	if err != nil {
		return models.Feedback{}, fmt.Errorf("failed to find feedbacks collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("rating", req.Rating)
	record.Set("email", req.Email)
	record.Set("message", req.Message)
	record.Set("timestamp", req.Timestamp)
	record.Set("room", req.Room)

	if err := s.app.Save(record); err != nil {
		return models.Feedback{}, fmt.Errorf("failed to save feedback: %w", err)
	}

	fb := recordToFeedback(record)

	if err := s.index.Index(record.Id, indexedFeedback{
		Message: fb.Message,
		Room:    fb.Room,
		Email:   fb.Email,
	}); err != nil {
		log.Printf("failed to index feedback %s: %v", record.Id, err)
	}

	if s.notifier != nil {
		go func() {
			if err := s.notifier.Send(fb); err != nil {
				log.Printf("error sending feedback notification: %v", err)
			}
		}()
	}

	return fb, nil
}

// List returns all stored feedback, newest first.
func (s *FeedbackService) List() ([]models.Feedback, error) {
	records, err := s.app.FindAllRecords("feedbacks")
	if err != nil {
		return nil, fmt.Errorf("failed to get feedbacks: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].GetDateTime("created").After(records[j].GetDateTime("created"))
	})

	feedbacks := make([]models.Feedback, 0, len(records))
	for _, r := range records {
		feedbacks = append(feedbacks, recordToFeedback(r))
	}
	return feedbacks, nil
}

// Search runs a match query over the indexed feedback and returns highlighted
// fragments for the dashboard partial.
func (s *FeedbackService) Search(search string) ([]map[string]interface{}, error) {
	query := bleve.NewMatchQuery(search)
	request := bleve.NewSearchRequest(query)
	request.Highlight = bleve.NewHighlight()

	searchResults, err := s.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var matches []map[string]interface{}
	for _, hit := range searchResults.Hits {
		highlight := strings.Join(hit.Fragments["Message"], "")
		matches = append(matches, map[string]interface{}{
			"ID":        hit.ID,
			"Highlight": template.HTML(highlight),
		})
	}
	return matches, nil
}

func recordToFeedback(r *core.Record) models.Feedback {
	return models.Feedback{
		ID:        r.Id,
		Rating:    r.GetInt("rating"),
		Email:     r.GetString("email"),
		Message:   r.GetString("message"),
		Timestamp: r.GetString("timestamp"),
		Room:      r.GetString("room"),
	}
}
