/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/teachstack/coursefs/cmd/coursefsd/cmd"

func main() {
	cmd.Execute()
}
