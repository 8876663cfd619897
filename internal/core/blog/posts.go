package blog

import (
	"sort"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var posts = []Post{
	{
		Slug:     "stale-while-revalidate-postgres",
		Date:     date(2025, time.March, 2),
		Category: "engineering",
		Tags:     []string{"caching", "go", "postgres"},
		Featured: true,
		Title: Text{
			EN: "Stale-while-revalidate on top of Postgres",
			FR: "Stale-while-revalidate avec Postgres",
		},
		Summary: Text{
			EN: "Serving my GitHub projects page without ever waiting on the GitHub API.",
			FR: "Servir la page de mes projets GitHub sans jamais attendre l'API GitHub.",
		},
		Content: Text{
			EN: `<p>The projects page lists my public repositories. GitHub allows sixty unauthenticated requests an hour, so every page view cannot hit the API.</p>
<p>The cache lives in two Postgres tables. Rows younger than five minutes are served as they are. Rows younger than an hour are served immediately while a background refresh runs. Anything older blocks on a single upstream call.</p>
<p>Failures are recorded in a metadata row so the status endpoint can show the last error and the remaining quota.</p>`,
			FR: `<p>La page des projets liste mes dépôts publics. GitHub autorise soixante requêtes non authentifiées par heure, donc chaque visite ne peut pas appeler l'API.</p>
<p>Le cache vit dans deux tables Postgres. Les lignes de moins de cinq minutes sont servies telles quelles. Celles de moins d'une heure sont servies immédiatement pendant qu'un rafraîchissement tourne en arrière-plan. Au-delà, la requête attend un seul appel à GitHub.</p>
<p>Les échecs sont enregistrés dans une ligne de métadonnées pour que l'endpoint de statut affiche la dernière erreur et le quota restant.</p>`,
		},
		ReadingMinutesEN: 3,
		ReadingMinutesFR: 3,
	},
	{
		Slug:     "contact-form-without-captcha",
		Date:     date(2025, time.January, 18),
		Category: "engineering",
		Tags:     []string{"go", "privacy", "security"},
		Title: Text{
			EN: "A contact form without a captcha",
			FR: "Un formulaire de contact sans captcha",
		},
		Summary: Text{
			EN: "Honeypots, hashed IPs and a three-per-hour budget.",
			FR: "Pots de miel, IP hachées et un budget de trois par heure.",
		},
		Content: Text{
			EN: `<p>A hidden field catches most bots. Submissions that fill it are stored and flagged, and the sender sees the usual success message.</p>
<p>Real senders get three messages an hour. The limit is keyed by a salted SHA-256 of the address, so no raw IP is ever written to disk.</p>`,
			FR: `<p>Un champ caché attrape la plupart des robots. Les envois qui le remplissent sont enregistrés et signalés, et l'expéditeur voit le message de succès habituel.</p>
<p>Les vrais expéditeurs ont droit à trois messages par heure. La limite utilise un SHA-256 salé de l'adresse, donc aucune IP brute n'est écrite sur disque.</p>`,
		},
		ReadingMinutesEN: 2,
		ReadingMinutesFR: 2,
	},
	{
		Slug:     "hello-world",
		Date:     date(2024, time.November, 5),
		Category: "personal",
		Tags:     []string{"meta"},
		Title: Text{
			EN: "Hello, world",
			FR: "Bonjour, le monde",
		},
		Summary: Text{
			EN: "Why this site exists.",
			FR: "Pourquoi ce site existe.",
		},
		Content: Text{
			EN: `<p>This is where I write about the things I build.</p>`,
			FR: `<p>J'écris ici sur ce que je construis.</p>`,
		},
		ReadingMinutesEN: 1,
		ReadingMinutesFR: 1,
	},
}

func init() {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}
