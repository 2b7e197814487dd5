package place

import "go.uber.org/fx"

// Module provides the place repository to Fx.
var Module = fx.Provide(NewRepository)
