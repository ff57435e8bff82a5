package main

import "github.com/MineX13/Discord-promo-checker/cmd"

func main() {
	cmd.Execute()
}
