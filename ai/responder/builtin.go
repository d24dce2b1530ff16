package responder

// builtinRules is the portfolio assistant's rule set, in match order.
var builtinRules = []RuleSpec{
	{
		Name:     "greeting",
		Patterns: []string{`hi|hello|hey|greetings`},
		Replies: []string{
			"Hello there! How can I help you today?",
			"Hi! I'm your virtual assistant. What can I do for you?",
			"Hey! How can I assist you today?",
			"Greetings! What brings you here today?",
		},
	},
	{
		Name:     "wellbeing",
		Patterns: []string{`how are you|how('s| is) it going|what('s| is) up`},
		Replies: []string{
			"I'm doing great! Thanks for asking. How can I assist you?",
			"I'm here and ready to help! What can I do for you?",
			"All systems operational! What do you need help with?",
			"I'm good! What can I help you with today?",
		},
	},
	{
		Name:     "farewell",
		Patterns: []string{`\b(bye|goodbye|see you|farewell)\b`},
		Replies: []string{
			"Goodbye! Feel free to chat again anytime.",
			"See you later! Have a great day!",
			"Farewell! Don't hesitate to return if you need assistance.",
			"Bye for now! Come back soon!",
		},
	},
	{
		Name:     "thanks",
		Patterns: []string{`thank(s| you)|appreciate|grateful`},
		Replies: []string{
			"You're welcome! Is there anything else I can help with?",
			"Happy to help! Let me know if you need anything else.",
			"Anytime! What else can I assist you with?",
			"My pleasure! Feel free to ask if you need more assistance.",
		},
	},
	{
		Name:     "portfolio",
		Patterns: []string{`portfolio|project|work|experience`},
		Replies: []string{
			"This portfolio showcases various projects and skills. Feel free to explore the different sections!",
			"You can find details about projects, skills, and experience in the respective sections of this portfolio.",
			"The portfolio highlights professional accomplishments, skills, and projects. Take a look around!",
			"Check out the Projects section to see some of the notable work displayed in this portfolio.",
		},
	},
	{
		Name:     "contact",
		Patterns: []string{`contact|reach|email|message`},
		Replies: []string{
			"You can use the contact form in the Contact section to send a message.",
			"The best way to get in touch is through the contact form or the provided social links.",
			"Feel free to reach out using the contact information available in the Contact section.",
			"To connect, please use the contact form or the social media links provided.",
		},
	},
	{
		Name:     "skills",
		Patterns: []string{`skill|technology|tech stack|language`},
		Replies: []string{
			"The Skills section showcases various technologies and expertise levels.",
			"You can find a comprehensive list of skills and technologies in the Skills section.",
			"The portfolio highlights proficiency in various programming languages and technologies in the Skills area.",
			"Check out the Skills section to learn about the various technologies and tools used.",
		},
	},
	{
		Name:     "education",
		Patterns: []string{`education|study|degree|university|college`},
		Replies: []string{
			"Educational background and qualifications can be found in the Education section.",
			"Details about academic achievements are available in the Education section.",
			"The Education section provides information about academic background and qualifications.",
			"You can learn about educational history and achievements in the dedicated Education area.",
		},
	},
	{
		Name:     "help",
		Patterns: []string{`help|assist|support|guidance`},
		Replies: []string{
			"I'm here to help! What specific information are you looking for?",
			"I'd be happy to assist. What would you like to know about?",
			"How can I help you today? Feel free to ask about any section of the portfolio.",
			"I'm your virtual assistant. What kind of information do you need?",
		},
	},
}

var fallbackReplies = []string{
	"I'm not sure I understand. Could you please rephrase your question?",
	"I don't have that information at the moment. Is there something else I can help with?",
	"That's an interesting question. Could you provide more details so I can assist better?",
	"I'm sorry, I don't have a specific answer for that. Is there another way I can help you?",
	"I'm still learning! Could you try asking in a different way or about something else?",
}

// defaultTable is compiled once at package init.
var defaultTable = MustNewTable(builtinRules, fallbackReplies)

// DefaultTable returns the built-in rule table.
func DefaultTable() *Table {
	return defaultTable
}
