package i18n

var messagesEN = map[string]string{
	// Navigation
	"nav_home":     "Home",
	"nav_projects": "Projects",
	"nav_blog":     "Blog",
	"nav_contact":  "Contact",

	// Home
	"hero_title":        "Krisztián Kovács",
	"hero_subtitle":     "IT Infrastructure Engineer & Project Manager",
	"hero_description":  "Building robust cloud platforms and leading teams that ship enterprise-grade infrastructure.",
	"hero_cta_projects": "View Projects",

	// Projects
	"projects_title":          "Projects",
	"projects_intro":          "Public repositories, most starred first.",
	"projects_stale":          "Showing cached data while it refreshes.",
	"projects_last_updated":   "Last updated",
	"projects_updated":        "Updated",
	"projects_stars":          "Stars",
	"projects_forks":          "Forks",
	"projects_empty":          "No repositories to show yet.",
	"projects_error":          "Projects are unavailable right now. Please try again later.",
	"projects_view_on_github": "View on GitHub",

	// Blog
	"blog_title":        "Blog",
	"blog_all_tags":     "All",
	"blog_reading_time": "min read",
	"blog_back":         "Back to blog",
	"blog_not_found":    "This post does not exist.",
	"blog_empty":        "No posts with this tag.",

	// Contact
	"contact_title":            "Get in Touch",
	"contact_name":             "Name",
	"contact_email":            "Email",
	"contact_subject":          "Subject",
	"contact_message":          "Message",
	"contact_send":             "Send Message",
	"contact_success":          "Thanks! Your message has been sent.",
	"contact_error_name":       "Please enter your name (up to 255 characters).",
	"contact_error_email":      "Please enter a valid email address.",
	"contact_error_message":    "Please enter a message (up to 5000 characters).",
	"contact_error_subject":    "The subject must be 500 characters or fewer.",
	"contact_error_rate_limit": "Too many messages. Please try again later.",
	"contact_error_server":     "Your message could not be sent. Please try again later.",

	// Preferences
	"pref_theme_light": "Light",
	"pref_theme_dark":  "Dark",
	"pref_language":    "FR",

	// Common
	"loading": "Loading...",
	"error":   "An error occurred",
	"success": "Success!",
}
