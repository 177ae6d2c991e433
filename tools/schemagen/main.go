// Command schemagen prints the JSON Schema for the client protocol so
// frontends can validate frames without importing the server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"warbound/server/internal/net"
	"warbound/server/internal/net/ws"
)

func main() {
	schemas := map[string]any{
		"clientCommand": jsonschema.Reflect(&ws.ClientCommand{}),
		"stateMessage":  jsonschema.Reflect(&net.StateMessage{}),
	}
	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemagen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
