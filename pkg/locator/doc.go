// Package locator resolves a free-text element description to the device
// coordinate of the best matching element in a hierarchy dump.
//
// Each candidate takes one of two branches: the keypad branch, when the
// query names a digit and the element's text is exactly that digit, or the
// semantic branch, which scores the query against the element's text and
// accessibility description. Clickable and Button-class elements get a small
// boost, and the best candidate is accepted only at AcceptThreshold or above.
package locator
