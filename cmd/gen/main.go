// Command gen generates type-safe GORM query code for the persistence models.
package main

import (
	"authsvc/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.ApplyBasic(model.UserModel{})

	g.Execute()
}
