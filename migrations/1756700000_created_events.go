package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{
				Name:     "title",
				Required: true,
			},
			&core.SelectField{
				Name:      "type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"casual", "casualTrade", "preRelease", "leagueChallenge", "leagueCup"},
			},
			&core.TextField{
				Name:     "date",
				Required: true,
			},
			&core.NumberField{
				Name:     "capacity",
				Required: true,
				OnlyInt:  true,
				Min:      types.Pointer(1.0),
			},
			&core.BoolField{
				Name: "hidden",
			},
			&core.BoolField{
				Name: "full",
			},
			&core.TextField{
				Name: "share_code",
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

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
