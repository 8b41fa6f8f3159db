package main

import "github.com/vinoclub/wineclub-backend/internal/app"

func main() {
	err := app.NewWineClubApp().Run()
	if err != nil {
		panic(err)
	}
}
