package main

import (
	"html/template"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/eosyam/scrum-game/internal/handlers"
	"github.com/eosyam/scrum-game/internal/security"
	"github.com/eosyam/scrum-game/internal/services"
	"github.com/eosyam/scrum-game/utils"
	_ "github.com/eosyam/scrum-game/pb_migrations"
)

func main() {
	pb := pocketbase.New()

	// load/store config
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	pb.Store().Set("cfg", cfg)

	// load/store templates
	tmpl, err := template.New("").ParseGlob("web/templates/*/*")
	if err != nil {
		log.Fatal(err)
	}
	pb.Store().Set("tmpl", tmpl)

	// Room and presence state is ephemeral: it lives in these services for
	// the lifetime of the process and is lost on restart.
	hub := services.NewHub()
	go hub.Run()

	registry := services.NewRegistry()
	presence := services.NewPresence(cfg.AwayGracePeriod)
	session := services.NewSession(registry, services.NewVotingEngine(), presence, hub)

	var notifier *services.Web3FormsNotifier
	if cfg.Web3FormsKey != "" {
		notifier = services.NewWeb3FormsNotifier(cfg.Web3FormsKey, "")
	} else {
		log.Println("WEB3FORMS_KEY not set - feedback email notifications disabled")
	}

	feedback, err := services.NewFeedbackService(pb, notifier)
	if err != nil {
		log.Fatal(err)
	}

	// Add HTTP routes
	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {
		ws := handlers.NewWSHandler(hub, session, security.NewOriginValidator(cfg.AllowedOrigins))
		fb := handlers.NewFeedbackHandlers(feedback)

		se.Router.GET("/ws", ws.HandleWebSocket)

		se.Router.POST("/api/feedback", fb.Submit)
		se.Router.GET("/api/feedbacks", fb.List)
		se.Router.GET("/feedbacks", fb.Dashboard)
		se.Router.POST("/feedbacks/search", fb.Search)

		se.Router.GET("/api/metrics", handlers.HandleMetrics(hub))
		se.Router.GET("/api/health", handlers.HandleHealth(hub))

		se.Router.GET("/public/{path...}", apis.Static(os.DirFS("web/public"), false))

		return se.Next()
	})

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}
