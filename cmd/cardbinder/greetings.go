package main

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var binderGreetings = [...]string{
	"An empty binder is just a book of plastic. Fix that.",
	"Somewhere out there, your chase card is sitting in someone else's box.",
	"The checklist doesn't check itself.",
	"Every complete set started with one card and a login.",
	"Your 1/1 won't log its own serial number.",
	"Nine pockets per page. Zero of them accounted for.",
	"A card unrecorded is a card half-owned.",
	"The flagship set has 200 cards. You currently track none of them.",
	"Refractors shine brighter when they're on a checklist.",
	"Condition is temporary. A good inventory is forever.",
	"You know exactly which card you're missing. So should this binder.",
	"Top loaders protect the card. This tracks it. Different jobs.",
}

func printBinderGreeting() {
	msg := binderGreetings[rand.Intn(len(binderGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("CARDBINDER")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To start: cardbinder login")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
