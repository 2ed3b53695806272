package middleware

import "github.com/danielgtaylor/huma/v2"

// Container collects middlewares for one handler at a time.
type Container struct {
	huma.Middlewares
}

func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

func (mc *Container) Add(middleware func(ctx huma.Context, next func(huma.Context))) {
	mc.Middlewares = append(mc.Middlewares, middleware)
}

// GetAllAndClear returns the collected middlewares and resets the container
// for the next handler.
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
