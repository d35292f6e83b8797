package components

import (
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/usecase/commands"
	usecaseevents "device-reservation/internal/usecase/events"
	"device-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewReservationCommands,
		queries.NewReservationQueries,
		usecaseevents.NewLoanEvents,
		usecaseevents.NewStaffEvents,
	),
)
