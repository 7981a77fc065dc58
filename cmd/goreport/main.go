package main

import "github.com/dbsmedya/goreport/cmd/goreport/cmd"

func main() {
	cmd.Execute()
}
