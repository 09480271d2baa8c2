package main

import (
	"github.com/idp-labs/shop-svc/internal/app"
	"github.com/idp-labs/shop-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
