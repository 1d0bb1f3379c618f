package npc

// templates are the role archetypes the roster draws from.
var templates = []Template{
	{ID: "quartermaster", Role: "Quartermaster", Attitude: "steady"},
	{ID: "firewatcher", Role: "Firewatcher", Attitude: "wary"},
	{ID: "ridge-scout", Role: "Ridge Scout", Attitude: "volatile"},
	{ID: "gate-runner", Role: "Gate Runner", Attitude: "steady"},
	{ID: "signal-keeper", Role: "Signal Keeper", Attitude: "wary"},
	{ID: "mess-cook", Role: "Mess Cook", Attitude: "steady"},
	{ID: "north-scout", Role: "North Scout", Attitude: "volatile"},
	{ID: "armory-clerk", Role: "Armory Clerk", Attitude: "wary"},
	{ID: "barracks-sergeant", Role: "Barracks Sergeant", Attitude: "steady"},
	{ID: "outer-sentry", Role: "Outer Sentry", Attitude: "volatile"},
}

// frontierNames is the given-name pool for the roster.
var frontierNames = []string{
	"Aldric",
	"Bersa",
	"Corwin",
	"Dagny",
	"Edric",
	"Fenna",
	"Garrick",
	"Halla",
	"Ivo",
	"Jorunn",
	"Kellan",
	"Liv",
	"Marek",
	"Nessa",
	"Oskar",
	"Petra",
}
