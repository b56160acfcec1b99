package mockclassifier

import "strings"

// Keyword weights in logit units.
const (
	weightStrong = 1.6
	weightMedium = 1.0
	weightWeak   = 0.6
)

// keyword is one scored term of the model.
type keyword struct {
	weight float64
	reason string
}

// keywords is the vocabulary of the default model.
var keywords = map[string]keyword{
	// Urgency and pressure
	"urgent":      {weightMedium, "Creates urgency to pressure quick action"},
	"immediately": {weightMedium, "Pressures you to act without thinking"},
	"limited":     {weightWeak, "Fake scarcity to force fast decisions"},
	"expire":      {weightMedium, "Urgency tactic based on fear of missing out"},
	"hurry":       {weightMedium, "Pressure tactic to bypass rational thinking"},
	"asap":        {weightWeak, "Urgency language to prevent you from thinking clearly"},
	"now":         {weightWeak, "Immediate action pressure, a classic manipulation tactic"},
	"today":       {weightWeak, "Time pressure to force hasty decisions"},
	"deadline":    {weightWeak, "Artificial deadline to create panic"},

	// Money and rewards
	"bonus":      {weightMedium, "Promise of extra money is a common lure"},
	"offer":      {weightWeak, "Vague offer language used to attract victims"},
	"prize":      {weightStrong, "Classic prize/lottery scam signal"},
	"won":        {weightStrong, "Fake winning claims to bait victims"},
	"lottery":    {weightStrong, "Lottery claims are a classic scam signal"},
	"free":       {weightMedium, "Too-good-to-be-true free offer tactic"},
	"cash":       {weightMedium, "Direct money mention to lure victims"},
	"reward":     {weightMedium, "Reward promises used as bait"},
	"earn":       {weightMedium, "Unrealistic earning claims attract victims"},
	"salary":     {weightWeak, "Fake salary promises in job scams"},
	"commission": {weightMedium, "Common word in fake job/task scams"},
	"daily":      {weightWeak, "Promises of daily earnings, a task/job scam signal"},
	"income":     {weightWeak, "Fake income promise to attract victims"},
	"payment":    {weightWeak, "Payment mention to build false legitimacy"},
	"refund":     {weightMedium, "Fake refund used to steal banking details"},
	"cashback":   {weightMedium, "Fake cashback to steal account info"},
	"money":      {weightWeak, "Direct money mention, a financial scam signal"},
	"transfer":   {weightWeak, "Money transfer request, common in fraud"},
	"deposit":    {weightMedium, "Deposit request before receiving reward, a scam tactic"},
	"withdrawal": {weightWeak, "Withdrawal mention to make scam feel real"},
	"profit":     {weightMedium, "Profit promise, common in investment scams"},
	"investment": {weightWeak, "Fake investment pitch, a financial scam signal"},
	"guaranteed": {weightMedium, "No legitimate offer guarantees returns"},
	"returns":    {weightWeak, "Guaranteed returns promise, an investment scam signal"},

	// Contact and communication
	"contact":  {weightWeak, "Asking you to contact may lead to info harvesting"},
	"whatsapp": {weightMedium, "Moves conversation off-platform to avoid detection"},
	"telegram": {weightMedium, "Unofficial channel, common in scam recruitment"},
	"click":    {weightMedium, "Directing to click a link, a phishing risk"},
	"link":     {weightMedium, "External link, a potential phishing page"},
	"call":     {weightWeak, "Unsolicited call request, a social engineering risk"},
	"reply":    {weightWeak, "Reply pressure used to initiate scam conversation"},

	// Account and credentials
	"otp":         {weightStrong, "OTP request is a major red flag, never share"},
	"pin":         {weightStrong, "PIN request, banks never ask for this"},
	"password":    {weightStrong, "Password request is always a red flag"},
	"verify":      {weightMedium, "Fake verification used to steal credentials"},
	"kyc":         {weightStrong, "KYC used as a pretext to harvest identity info"},
	"account":     {weightWeak, "Account mention to build false legitimacy"},
	"login":       {weightMedium, "Login request outside official app is suspicious"},
	"credentials": {weightStrong, "Credential request, an identity theft risk"},
	"details":     {weightWeak, "Asking for personal details, a data harvesting attempt"},
	"bank":        {weightWeak, "Bank mention, a financial phishing signal"},
	"card":        {weightMedium, "Card details request, a payment fraud risk"},
	"cvv":         {weightStrong, "CVV request, banks never ask for this"},
	"suspended":   {weightMedium, "Account suspension threat used to create panic"},

	// Apps and tech
	"download": {weightMedium, "Download request, a risk of malware or spyware"},
	"install":  {weightMedium, "Install request, a potential malicious app"},
	"apk":      {weightStrong, "APK install request bypasses app store safety"},
	"remote":   {weightMedium, "Remote access request lets scammers control your device"},

	// Social engineering
	"emergency":       {weightMedium, "Fake emergency to bypass rational thinking"},
	"official":        {weightWeak, "Fake official claim, an impersonation red flag"},
	"winner":          {weightStrong, "Fake winner announcement, a lottery/prize scam"},
	"selected":        {weightMedium, "Fake selection claim, a lottery/job scam signal"},
	"congratulations": {weightMedium, "Classic scam opener for prize/lottery fraud"},
	"exclusive":       {weightWeak, "Exclusivity claim to make victim feel special"},
	"claim":           {weightMedium, "Claim request used to bait prize victims"},

	// Job and task scams
	"job":    {weightWeak, "Unsolicited job offer, a common scam vector"},
	"hiring": {weightWeak, "Fake hiring message to harvest personal data"},
	"task":   {weightMedium, "Task-based scam pays small amounts first, then defrauds"},
	"apply":  {weightWeak, "Apply now pressure, a fake job scam tactic"},

	// Delivery scams
	"parcel":   {weightMedium, "Fake parcel alert to steal delivery fees or info"},
	"delivery": {weightWeak, "Fake delivery notification, a phishing signal"},
	"customs":  {weightMedium, "Fake customs fee demand, a common delivery scam"},
	"courier":  {weightWeak, "Fake courier message to steal payment details"},

	// Billing
	"subscription": {weightWeak, "Fake subscription charge, a billing scam signal"},
	"activate":     {weightMedium, "Fake activation request, a phishing tactic"},
	"confirm":      {weightWeak, "Confirmation request used to verify active targets"},
	"update":       {weightWeak, "Fake update request, a credential phishing signal"},
}

// wordReason explains why word was flagged.
func wordReason(word string) string {
	w := strings.ToLower(word)
	if k, ok := keywords[w]; ok {
		return k.reason
	}
	switch {
	case isDigits(w):
		return "Specific number, possibly a fake money amount to seem credible"
	case len(w) <= 2:
		return "Short token flagged by model, may appear frequently in scam context"
	case strings.HasSuffix(w, "ing"):
		return "Action word associated with scam instructions in training data"
	default:
		return "Word statistically linked to scam patterns in training data"
	}
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
