package components

import (
	"device-reservation/internal/handler"
	"device-reservation/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewEventsHandler,
	),
	fx.Invoke(handler.NewRouter),
)
