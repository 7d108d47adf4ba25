package main

import "refeval/internal/app"

func main() {
	app.Main()
}
