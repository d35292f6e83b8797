package components

import (
	"device-reservation/internal/infra/readstore"
	"device-reservation/internal/infra/repository"
	"device-reservation/internal/usecase/commands"
	"device-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)
