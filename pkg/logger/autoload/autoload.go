// Package autoload initializes the global logger from the LOG_* environment
// on import. Blank-import it from a main package.
package autoload

import (
	configx "github.com/tanpawarit/hr-agent-mesh/pkg/config"
	logx "github.com/tanpawarit/hr-agent-mesh/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
