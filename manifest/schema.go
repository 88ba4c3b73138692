package manifest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schemaSource constrains a decoded manifest after defaults are applied.
const schemaSource = `
#Port: int & >=0 & <=65535

#Manifest: {
	project: {
		name:    string
		version: string
	}
	source: {
		dirs: [...string & !=""] & [_, ...]
	}
	output: {
		dir:       string & !=""
		extension: string & =~"^\\.[A-Za-z0-9.]+$"
	}
	compile: {
		globals: [...string & =~"^[A-Za-z_$][A-Za-z0-9_$.]*$"]
	}
	cache: {
		path:     string & !=""
		disabled: bool
	}
	server: {
		port:        #Port
		"grpc-port": #Port
	}
}
`

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// guards schemaCtx, which is not safe for concurrent use
	schemaMu sync.Mutex
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("uwu.toml.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling manifest schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Manifest"))
		schemaErr = schemaDef.Err()
	})
	return schemaCtx, schemaDef, schemaErr
}

// Validate checks the manifest against the manifest schema. Defaults should
// already be applied.
func (m *Manifest) Validate() error {
	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	// The schema requires lists, not null.
	check := *m
	if check.Compile.Globals == nil {
		check.Compile.Globals = []string{}
	}
	if check.Source.Dirs == nil {
		check.Source.Dirs = []string{}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := def.Unify(ctx.Encode(check))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}
