// Package chat implements the canned-response assistant. Replies are
// chosen by keyword matching on the incoming message; within a matched
// intent one template is drawn uniformly at random for variety. The
// engine keeps no conversation state.
package chat

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Rand supplies the pool selection. Injected so tests can pin the draw.
type Rand interface {
	Intn(n int) int
}

// Intent keyword lists, checked in priority order: first match wins.
var (
	greetingWords   = []string{"hello", "hi", "hey"}
	jokeWords       = []string{"joke"}
	savingsWords    = []string{"save", "control", "spending tips", "reduce expense"}
	motivationWords = []string{"motivate", "encourage", "inspire"}
	affirmWords     = []string{"yes", "ok", "sure"}
)

var greetingPool = []string{
	"Hello %s! How can I help you with your expenses today?",
	"Hi %s, good to see you! Ready to look at your spending?",
	"Hey %s! Ask me anything about saving or your budget.",
}

var jokePool = []string{
	"Why did the wallet go to therapy? It was feeling a little empty inside.",
	"I told my budget a joke. It didn't laugh — it's very tight.",
	"My expenses and I are in a committed relationship. They keep growing, I keep crying.",
}

var savingsPool = []string{
	"Try the 50/30/20 rule: needs, wants, and savings. Your future self will thank you.",
	"Track every small purchase for a week — the little ones add up fastest.",
	"Set a category budget before the month starts and check it mid-month.",
}

var motivationPool = []string{
	"Every coin you save today is a choice you get to make tomorrow.",
	"Small consistent savings beat big occasional ones. Keep going!",
	"You don't have to be perfect with money, just a little better than last month.",
}

const affirmReply = "Great, %s! Let's keep your spending on track."

var defaultPool = []string{
	"I'm not sure I got that. Try asking about saving tips, or say hello!",
	"Hmm, that's beyond me. I can share spending tips, jokes, or a bit of motivation.",
	"Could you rephrase? I'm best at budgets, savings and bad money jokes.",
}

// Responder is the reply engine. Stateless across calls; safe for
// concurrent use when the injected Rand is.
type Responder struct {
	rand Rand
}

// New returns a Responder with its own uniform random source.
func New() *Responder {
	return &Responder{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRand returns a Responder using the given source.
func NewWithRand(r Rand) *Responder {
	return &Responder{rand: r}
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func (r *Responder) pick(pool []string) string {
	return pool[r.rand.Intn(len(pool))]
}

// Reply maps a chat message to a canned response. Matching is a
// case-insensitive substring check on the trimmed message.
func (r *Responder) Reply(message, username string) string {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(msg, greetingWords):
		return fmt.Sprintf(r.pick(greetingPool), username)
	case containsAny(msg, jokeWords):
		return r.pick(jokePool)
	case containsAny(msg, savingsWords):
		return r.pick(savingsPool)
	case containsAny(msg, motivationWords):
		return r.pick(motivationPool)
	case containsAny(msg, affirmWords):
		return fmt.Sprintf(affirmReply, username)
	default:
		return r.pick(defaultPool)
	}
}
