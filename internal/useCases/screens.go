package useCases

import (
	"fmt"
	"strings"

	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/pagination"
)

var homeRow = []domain.Button{{Label: "Home", Token: domain.TokenHome}}

func screen(ev domain.Event, text string, rows ...[]domain.Button) *domain.Screen {
	return &domain.Screen{Chat: ev.Chat, Text: text, Buttons: rows}
}

func withNote(note, text string) string {
	if note == "" {
		return text
	}
	return note + "\n\n" + text
}

func welcomeScreen(ev domain.Event, note string) *domain.Screen {
	return screen(ev, withNote(note, "Hi! Choose an action"),
		[]domain.Button{{Label: "Sign in", Token: domain.TokenAuthorize}},
	)
}

func mainScreen(ev domain.Event, note string) *domain.Screen {
	return screen(ev, withNote(note, "Main menu"),
		[]domain.Button{
			{Label: "Create", Token: domain.TokenCreateItem},
			{Label: "Advertisements", Token: domain.TokenViewAds},
			{Label: "Account", Token: domain.TokenViewAccount},
		},
	)
}

func adChoiceScreen(ev domain.Event) *domain.Screen {
	return screen(ev, "Whose advertisements do you want to see?",
		[]domain.Button{
			{Label: "Mine", Token: domain.TokenViewOwn},
			{Label: "Others", Token: domain.TokenViewOther},
		},
		homeRow,
	)
}

func helpScreen(ev domain.Event, signedIn bool) *domain.Screen {
	text := "I keep lost and found pet advertisements.\n\n" +
		"/start - begin again\n" +
		"/help - show this message\n\n"
	if signedIn {
		text += "Continue where you left off, or go Home to pick an action."
	} else {
		text += "Sign in with your pet-home login to continue."
	}
	return screen(ev, text, homeRow)
}

func inputScreen(ev domain.Event, prompt, template string) *domain.Screen {
	return screen(ev, prompt+"\n\n"+template, homeRow)
}

func accountScreen(ev domain.Event, acc domain.Account) *domain.Screen {
	text := fmt.Sprintf("First name: %s\nLast name: %s\nUsername: %s\nPhone: %s\nEmail: %s",
		acc.FirstName, acc.LastName, acc.Username, acc.PhoneNumbers, acc.EmailAddresses)
	return screen(ev, text,
		[]domain.Button{{Label: "Update", Token: domain.TokenUpdateAccount}},
		homeRow,
	)
}

func adScreen(ev domain.Event, w *domain.Window, note string) *domain.Screen {
	ad, ok := pagination.Current(w)
	if !ok {
		return screen(ev, withNote(note, "Sorry, I found nothing :("), homeRow)
	}

	nav := []domain.Button{{Label: "<", Token: domain.TokenPrevItem}}
	if w.Scope == domain.ScopeOwn {
		nav = append(nav, domain.Button{Label: "Edit", Token: domain.TokenEditItem})
	}
	nav = append(nav, domain.Button{Label: ">", Token: domain.TokenNextItem})

	rows := [][]domain.Button{nav}
	if w.Scope == domain.ScopeOwn {
		rows = append(rows, []domain.Button{{Label: "Delete", Token: domain.TokenDeleteItem}})
	}
	rows = append(rows, homeRow)

	text := withNote(note, formatAd(ad, w.Scope == domain.ScopeOwn)+
		fmt.Sprintf("\n\npage %d · %d/%d", w.Page, w.Cursor+1, len(w.Items)))
	return screen(ev, text, rows...)
}

func formatAd(ad domain.Advertisement, withID bool) string {
	var b strings.Builder
	if withID {
		fmt.Fprintf(&b, "ID: %d\n", ad.ID)
	}
	fmt.Fprintf(&b, "Pet name: %s\n", ad.PetName)
	fmt.Fprintf(&b, "Type: %s\n", strings.ToLower(string(ad.Type)))
	fmt.Fprintf(&b, "Signs: %s\n", strings.Join(ad.Signs, ", "))
	fmt.Fprintf(&b, "Age: %d\n", ad.Age)
	fmt.Fprintf(&b, "Location: %s, %s, %s\n", ad.Location.City, ad.Location.District, ad.Location.Street)
	fmt.Fprintf(&b, "Date: %02d.%02d.%d", ad.Date.Day, ad.Date.Month, ad.Date.Year)
	return b.String()
}
