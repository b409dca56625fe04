package repositories

import (
	"strings"

	"github.com/sbilibin2017/smart-todo/internal/logger"
)

// logQuery logs a query in a single line together with its args, result and error.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}
