package handler

import (
	"time"

	"github.com/mymmrac/telego"
)

// Callback data prefixes. Arguments follow after a single space.
const (
	callbackSelect = "select"
	callbackPage   = "page"
	callbackCancel = "cancel"
	callbackLang   = "lang"
)

const (
	navPrev   = "⬅️"
	navCancel = "❌"
	navNext   = "➡️"

	maxButtonTitle = 60
	watchURL       = "https://www.youtube.com/watch?v="
)

// Notice lifetimes.
const (
	helpDelay        = 20 * time.Second
	cancelDelay      = 7 * time.Second
	noResultsDelay   = 10 * time.Second
	queueListDelay   = 10 * time.Second
	statusDelay      = 10 * time.Second
	queueAddedDelay  = 5 * time.Second
	unsupportedDelay = 5 * time.Second
	searchErrorDelay = 5 * time.Second
)

// Commands is the menu published at startup.
var Commands = []telego.BotCommand{
	{Command: "start", Description: "Start / Démarrer"},
	{Command: "help", Description: "Help / Aide"},
	{Command: "lang", Description: "Language / Langue"},
	{Command: "queue", Description: "Queue / File d'attente"},
	{Command: "cancel", Description: "Cancel / Annuler"},
	{Command: "status", Description: "Stats / Statistiques"},
}
