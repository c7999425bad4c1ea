package engine

// Fixed Dutch reply texts. The confirm/reject lexicons are matched
// case-insensitively, either as the whole message or as its first word.
const (
	replyConfirmFmt = `Ik ga "%s" inplannen op %s om %s. Klopt dit?`
	replyNoDate     = `Ik kon geen datum vinden. Probeer bijv: "morgen om 14:00 meeting" of "volgende week maandag vergadering"`
	replyNoAccess   = "Geen toegang tot Google Calendar. Log opnieuw in."
	replyCancelled  = "Oké, ik heb het geannuleerd. Wat wil je inplannen?"
	replyCreatedFmt = "✅ \"%s\" staat gepland op %s om %s.\n%s"
	replyFailedFmt  = "❌ Het event kon niet worden aangemaakt: %s"
	replyGenericErr = "Onbekende fout bij aanmaken event"
)

var confirmWords = []string{"ja", "ok", "oké", "okay", "klopt", "yes", "jep", "yep", "doe maar"}

var rejectWords = []string{"nee", "no", "niet", "annuleer", "stop", "cancel"}
