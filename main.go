package main

import "github.com/frahmantamala/sales-crm/cmd"

func main() {
	cmd.Execute()
}
