package commands

import (
	"fmt"

	"github.com/Descent098/ezcv/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Name  string `arg:"" optional:"" help:"Your name, written to config.yml"`
	Theme string `short:"t" help:"Theme to use (default freelancer)"`
	Force bool   `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Printf("Creating site in %s\n", root.Root)
	if err := config.Init(root.Root, i.Name, i.Theme, i.Force); err != nil {
		return err
	}
	fmt.Println("Site initialized; run `ezcv build` to generate it")
	return nil
}
