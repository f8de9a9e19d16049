package app

import (
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/specialistvlad/forestgrid/modules/jsonl"
	"github.com/specialistvlad/forestgrid/modules/print"
	"github.com/specialistvlad/forestgrid/modules/socketio"
	"github.com/specialistvlad/forestgrid/modules/tree"
)

// coreModules is the definitive list of all modules that are compiled into
// the forestgrid binary.
var coreModules = []registry.Module{
	&tree.Module{},
	&print.Module{},
	&jsonl.Module{},
	&socketio.Module{},
}

// defaultOutput is used when a scene declares no output block.
const defaultOutput = "print"
