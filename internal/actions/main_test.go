package actions_test

import (
	"os"

	"gitstack.dev/gitstack/internal/tui"
)

func init() {
	// Plain output so assertions can match rendered text
	os.Setenv("NO_COLOR", "1")
	tui.InitColorProfile()
}
