package convention

import (
	"github.com/jra3/tdb/internal/action"
	"github.com/jra3/tdb/internal/pipeline"
)

// compiled is one action spec resolved into either a TagAction or an
// ApiAction, mirroring the two variants a Command's actions draw from.
type compiled struct {
	tag *action.TagAction
	api *action.ApiAction
}

func (c compiled) forcings() pipeline.Forcings {
	if c.api != nil {
		return c.api.Forcings()
	}
	return c.tag.Forcings()
}

// parseAction decodes one action's token list against the shared
// action grammar (see action.Parse).
func parseAction(tokens []string) (compiled, error) {
	tag, api, err := action.Parse(tokens)
	if err != nil {
		return compiled{}, err
	}
	return compiled{tag: tag, api: api}, nil
}
