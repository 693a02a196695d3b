/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mg3/promag-api/cmd"

func main() {
	cmd.Execute()
}
