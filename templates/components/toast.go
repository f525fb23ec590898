package components

// Toast variants
const (
	ToastDefault     = "default"
	ToastDestructive = "destructive"

	// ToastEvent is the client-side event dashboard.js listens for
	ToastEvent = "showToast"

	// DefaultToastDuration is in milliseconds
	DefaultToastDuration = 3000
)

// Toast is a transient notification rendered by the client
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
	Duration    int    `json:"duration"`
}

// NewToast builds a toast with the default duration
func NewToast(title, description, variant string) *Toast {
	if variant == "" {
		variant = ToastDefault
	}
	return &Toast{
		Title:       title,
		Description: description,
		Variant:     variant,
		Duration:    DefaultToastDuration,
	}
}

// TriggerHeader is the HX-Trigger value that shows t
func (t *Toast) TriggerHeader() string {
	return HXTrigger(ToastEvent, t)
}
