package main

import "musicstore_admin/internal/app"

func main() {
	app.Run()
}
