package stroke

// LongestKey bounds a stroke key: one base command plus 51 modifiers.
const LongestKey = 52

// Command binds a base stroke to its rendering template. A key may name a
// command by its steno stroke or by its descriptive name.
type Command struct {
	Name        string `json:"name"`
	Stroke      string `json:"stroke"`
	Template    string `json:"template"`
	Description string `json:"description"`
}

// Modifier shifts the rendered date by a signed number of days.
type Modifier struct {
	Name   string `json:"name"`
	Stroke string `json:"stroke"`
	Days   int    `json:"days"`
}

// Commands is the dispatch table. Changing it changes translations.
var Commands = []Command{
	{Name: "IsoDate", Stroke: "Z-TZ", Template: "%Y-%m-%d_", Description: "ISO date YYYY-MM-DD_"},
	{Name: "Weekday", Stroke: "Z-Z", Template: "%A", Description: "Weekday name"},
	{Name: "WeekDateTime", Stroke: "Z-DZ", Template: "KW %W: %A %d.%m.%Y %H:%M", Description: "Date with time and week"},
	{Name: "WeekDate", Stroke: "Z-D", Template: "KW %W: %A %d.%m.%Y", Description: "Date with week"},
}

// Months are fixed 28 day steps, not calendar months.
var Modifiers = []Modifier{
	{Name: "ForwardOneDay", Stroke: "U", Days: 1},
	{Name: "BackwardOneDay", Stroke: "E", Days: -1},
	{Name: "ForwardOneWeek", Stroke: "O", Days: 7},
	{Name: "BackwardOneWeek", Stroke: "A", Days: -7},
	{Name: "ForwardOneMonth", Stroke: "EU", Days: 28},
	{Name: "BackwardOneMonth", Stroke: "AO", Days: -28},
}

var (
	commandIndex  = map[string]Command{}
	modifierIndex = map[string]Modifier{}
)

func init() {
	for _, c := range Commands {
		commandIndex[c.Stroke] = c
		commandIndex[c.Name] = c
	}
	for _, m := range Modifiers {
		modifierIndex[m.Stroke] = m
		modifierIndex[m.Name] = m
	}
}

// LookupCommand matches tok exactly against command strokes and names.
func LookupCommand(tok string) (Command, bool) {
	c, ok := commandIndex[tok]
	return c, ok
}

// LookupModifier matches tok exactly against modifier strokes and names.
func LookupModifier(tok string) (Modifier, bool) {
	m, ok := modifierIndex[tok]
	return m, ok
}
