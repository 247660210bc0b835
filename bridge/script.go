package bridge

import (
	_ "embed"
	"encoding/json"
)

//go:embed bridge.js
var bridgeJS string

// Script returns the script to run in every document of a surface owned by
// instance. It must run after the BindingName binding is installed.
func Script(instance string) string {
	tag, _ := json.Marshal(instance)
	return "window.__feedview_instance = " + string(tag) + ";\n" + bridgeJS
}
