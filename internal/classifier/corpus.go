package classifier

// Labels is the fixed set of categories the model can suggest, in the
// order used for deterministic tie-breaking.
var Labels = []string{
	"Transport",
	"Food",
	"Utilities",
	"Entertainment",
	"Groceries",
	"Travel",
}

type trainingExample struct {
	Text  string
	Label string
}

// corpus is the training set the model is fitted on at startup: two
// example descriptions per label.
var corpus = []trainingExample{
	{"bus ticket for the morning commute", "Transport"},
	{"taxi fare from the airport", "Transport"},
	{"dinner at the italian restaurant", "Food"},
	{"lunch takeaway pizza and burger", "Food"},
	{"monthly electricity and water bill", "Utilities"},
	{"internet broadband utility payment", "Utilities"},
	{"movie tickets at the cinema", "Entertainment"},
	{"concert and streaming subscription", "Entertainment"},
	{"weekly supermarket groceries and vegetables", "Groceries"},
	{"milk bread and eggs from the grocery store", "Groceries"},
	{"flight booking for the holiday trip", "Travel"},
	{"hotel reservation for the weekend getaway", "Travel"},
}
