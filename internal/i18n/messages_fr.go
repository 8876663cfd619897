package i18n

var messagesFR = map[string]string{
	// Navigation
	"nav_home":     "Accueil",
	"nav_projects": "Projets",
	"nav_blog":     "Blog",
	"nav_contact":  "Contact",

	// Home
	"hero_title":        "Krisztián Kovács",
	"hero_subtitle":     "Ingénieur Infrastructure IT & Chef de Projet",
	"hero_description":  "Conception de plateformes cloud robustes et direction d'équipes qui livrent des infrastructures d'entreprise.",
	"hero_cta_projects": "Voir les projets",

	// Projects
	"projects_title":          "Projets",
	"projects_intro":          "Dépôts publics, les plus étoilés d'abord.",
	"projects_stale":          "Données en cache affichées pendant l'actualisation.",
	"projects_last_updated":   "Dernière mise à jour",
	"projects_updated":        "Mis à jour",
	"projects_stars":          "Étoiles",
	"projects_forks":          "Forks",
	"projects_empty":          "Aucun dépôt à afficher pour le moment.",
	"projects_error":          "Les projets sont indisponibles pour le moment. Réessayez plus tard.",
	"projects_view_on_github": "Voir sur GitHub",

	// Blog
	"blog_title":        "Blog",
	"blog_all_tags":     "Tous",
	"blog_reading_time": "min de lecture",
	"blog_back":         "Retour au blog",
	"blog_not_found":    "Cet article n'existe pas.",
	"blog_empty":        "Aucun article avec ce tag.",

	// Contact
	"contact_title":            "Me Contacter",
	"contact_name":             "Nom",
	"contact_email":            "Email",
	"contact_subject":          "Sujet",
	"contact_message":          "Message",
	"contact_send":             "Envoyer",
	"contact_success":          "Merci ! Votre message a été envoyé.",
	"contact_error_name":       "Veuillez indiquer votre nom (255 caractères maximum).",
	"contact_error_email":      "Veuillez indiquer une adresse email valide.",
	"contact_error_message":    "Veuillez écrire un message (5000 caractères maximum).",
	"contact_error_subject":    "Le sujet ne doit pas dépasser 500 caractères.",
	"contact_error_rate_limit": "Trop de messages. Veuillez réessayer plus tard.",
	"contact_error_server":     "Votre message n'a pas pu être envoyé. Veuillez réessayer plus tard.",

	// Preferences
	"pref_theme_light": "Clair",
	"pref_theme_dark":  "Sombre",
	"pref_language":    "EN",

	// Common
	"loading": "Chargement...",
	"error":   "Une erreur s'est produite",
	"success": "Succès !",
}
