package answer

// Fixed response templates keyed by response key. The crisis text is the
// terminal answer for urgent-safety routes and must never be rewritten or
// post-processed.
var templates = map[string]string{
	"crisis": "If you might be in danger or considering self-harm: Call 911 or 988 now. " +
		"On campus, contact UMBC Police (410-455-5555). RIH Urgent Care: 410-455-2542. " +
		"I can't proceed with a normal answer, but you're not alone.",
	"title_ix": "Title IX support: Report or seek confidential guidance. Title IX Office: 410-455-1717. " +
		"You can learn about options and supportive measures without making a formal report.",
	"conduct": "Student Conduct/CARE resources can help with harassment, bias, or threats. " +
		"We can connect you with support, safety planning, and reporting options.",
	"retention": "Thinking about withdrawing or taking a break? Academic Advising and Student Success can help " +
		"you explore options, deadlines, and impacts before you decide.",
	"counseling": "Counseling at RIH: appointments, brief therapy, referrals, and workshops are available. " +
		"If this is urgent, see crisis options above.",
}

const fallbackTemplate = "I'll point you to the right campus resource."

// Disclaimer is printed once at the start of an interactive session.
const Disclaimer = "I'm an informational assistant for Retriever Integrated Health (RIH). " +
	"I don't provide medical advice. In emergencies, call 911 or 988. " +
	"On campus, contact UMBC Police (410-455-5555)."

// Template returns the fixed text for a response key, or a neutral pointer
// when the key is unknown.
func Template(key string) string {
	if text, ok := templates[key]; ok {
		return text
	}
	return fallbackTemplate
}

// Crisis returns the fixed crisis template.
func Crisis() string {
	return templates["crisis"]
}

// ClarifyQuestion is the fixed counseling-vs-medical clarifying question.
const ClarifyQuestion = "Do you want to schedule a **counseling** appointment or a **medical** appointment?"
