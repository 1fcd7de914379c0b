package commands

import (
	"fmt"

	"github.com/Descent098/ezcv/internal/version"
)

// VersionCmd prints the version line.
type VersionCmd struct{}

func (VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println(version.String())
	return nil
}
