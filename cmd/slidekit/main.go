// Command slidekit edits PowerPoint decks and serves deck tools over MCP.
package main

import "github.com/klytics/slidekit/cmd"

func main() {
	cmd.Execute()
}
