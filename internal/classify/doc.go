// Package classify decides how a trademark drawing should be categorized:
// missing, standard-character text, stylized or design, or slogan. A chain
// of strategies (hosted vision model, local OCR) feeds a rule table of
// thresholds and design keywords; when nothing can read the image the type
// degrades to stylized.
package classify
