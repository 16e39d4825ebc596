package main

import "github.com/safetype/safetype/cmd/safetype"

func main() { safetype.Execute() }
