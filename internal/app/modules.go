package app

import (
	"github.com/specialistvlad/devenv/internal/registry"
	"github.com/specialistvlad/devenv/modules/ddev"
	"github.com/specialistvlad/devenv/modules/lando"
)

// coreModules is the definitive list of environments compiled into the
// devenv binary.
var coreModules = []registry.Module{
	&ddev.Module{},
	&lando.Module{},
}
