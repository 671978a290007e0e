package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("feedbacks")
		collection.ListRule = nil
		collection.ViewRule = nil
		collection.CreateRule = nil
		collection.UpdateRule = nil
		collection.DeleteRule = nil

		collection.Fields.Add(&core.NumberField{
			Name:     "rating",
			Required: true,
			Min:      floatPtr(1),
			Max:      floatPtr(5),
		})

		collection.Fields.Add(&core.EmailField{
			Name:     "email",
			Required: false,
		})

		collection.Fields.Add(&core.TextField{
			Name:     "message",
			Required: true,
			Max:      2000,
		})

		// Client-supplied submission timestamp, stored as sent.
		collection.Fields.Add(&core.TextField{
			Name:     "timestamp",
			Required: false,
			Max:      64,
		})

		collection.Fields.Add(&core.TextField{
			Name:     "room",
			Required: false,
			Max:      100,
		})

		collection.Fields.Add(&core.AutodateField{
			Name:     "created",
			OnCreate: true,
		})

		collection.Fields.Add(&core.AutodateField{
			Name:     "updated",
			OnCreate: true,
			OnUpdate: true,
		})

		collection.Indexes = []string{
			"CREATE INDEX idx_feedbacks_created ON feedbacks(created)",
			"CREATE INDEX idx_feedbacks_room ON feedbacks(room)",
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("feedbacks")
		if err == nil && collection != nil {
			return app.Delete(collection)
		}
		return nil
	})
}

func floatPtr(v float64) *float64 {
	return &v
}
