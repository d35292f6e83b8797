package bootstrap

import (
	"device-reservation/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	BusModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
