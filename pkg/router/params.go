package router

import (
	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/julienschmidt/httprouter"
)

// Params is the ordered list of parameters bound by route matching.
type Params = httprouter.Params

// GetParams retrieves the route parameters stored in props by route matching.
// It returns nil if no route has matched.
func GetParams(props common.Props) Params {
	params, _ := props[common.ParamsKey].(Params)
	return params
}

// GetParam retrieves a specific route parameter.
// It's a convenience function that combines GetParams and ByName.
func GetParam(props common.Props, name string) string {
	return GetParams(props).ByName(name)
}
