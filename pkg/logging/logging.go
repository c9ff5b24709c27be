// Package logging wires the front-ends to commonlog.
package logging

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Configure sets the global verbosity (0 = notices and worse, 1 = info,
// 2 = debug). An empty file logs to stderr.
func Configure(verbosity int, file string) {
	var path *string
	if file != "" {
		path = &file
	}
	commonlog.Configure(verbosity, path)
}

// Get returns the named logger under the gobf prefix.
func Get(name string) commonlog.Logger {
	return commonlog.GetLogger("gobf." + name)
}
