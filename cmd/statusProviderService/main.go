package main

import (
	"bitbucket.org/airenas/vtgo/internal/app/status"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	status.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
       __
 _   _/ /_____ _____
| | / / __/ __ ` + "`" + `/ __ \
| |/ / /_/ /_/ / /_/ /
|___/\__/\__, /\____/
        /____/
   _____/ /_____ _/ /___  _______
  / ___/ __/ __ ` + "`" + `/ __/ / / / ___/
 (__  ) /_/ /_/ / /_/ /_/ (__  )
/____/\__/\__,_/\__/\__,_/____/ v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/vtgo"))
}
