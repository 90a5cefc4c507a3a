/*
Package cardform implements the card entry form: formatting of keystrokes,
per-field validation, touch-gated error display, the aggregate validity flag
and the submission state machine that hands the card to a tokenizer.

Usage:

	// Drive a form from any goroutine
	sess := cardform.NewSession(cardform.Config{MinExpiryYear: 2024}, cardform.Options{
	    Tokenizer: tokenizer.NewTestTokenizer(),
	    Messages:  messages.ForLocale("en"),
	})
	defer sess.Close()

	sess.ChangeField(cardform.FieldCardNumber, "4242424242424242")
	sess.FocusLost(cardform.FieldCardNumber)
	state, err := sess.Submit()

Fields:

Each field is normalized on every change (card numbers grouped in fours,
expiry as MM/YY, CVC digits only) and revalidated. A field shows an error only
once it has lost focus at least once, is non-empty and fails validation.
Touching is a one-way latch.

Submission:

	Idle -> Processing -> Succeeded(token) | Failed(reason) -> Idle

Submit re-validates every field before calling the tokenizer; invalid data
fails with ReasonInvalidData without a tokenizer call. A submit while
Processing is ignored. The tokenizer runs on its own goroutine and its result
is dispatched back to the form's owner, which leaves Processing exactly once.
ResultHandled clears a terminal result so it is observed once.

Error Handling:

Tokenizer failures are classified by processor code, then by message text,
into a Reason with a localized message:
- ReasonDeclined, ReasonInvalidNumber, ReasonExpired, ReasonInvalidCvc
- ReasonProcessing for processor errors and timeouts
- ReasonGeneric for anything unrecognised
*/
package cardform
