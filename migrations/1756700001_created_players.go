package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("players")

		collection.Fields.Add(
			&core.TextField{
				Name:     "player_id",
				Required: true,
			},
			&core.TextField{
				Name:     "first_name",
				Required: true,
			},
			&core.TextField{
				Name:     "last_name",
				Required: true,
			},
			&core.TextField{
				Name:     "birth_year",
				Required: true,
			},
			&core.TextField{
				Name: "contact",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		// One identity record per external player id.
		collection.AddIndex("idx_players_player_id", true, "player_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("players")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
