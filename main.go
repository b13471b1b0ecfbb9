package main

import "github.com/filesearch/filesearch/cmd/filesearch"

func main() { filesearch.Execute() }
