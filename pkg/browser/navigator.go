package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"signscraper/pkg/config"
	"signscraper/pkg/errors"
	"signscraper/pkg/logger"
	"signscraper/pkg/models"
)

// cardsJS reads every result card on the current page into plain data. The
// caption is the last non-empty text block inside the card.
const cardsJS = `
(() => {
	const cards = [];
	document.querySelectorAll('#product a').forEach(a => {
		const img = a.querySelector('img');
		let caption = '';
		a.querySelectorAll('p, span, div').forEach(el => {
			const text = el.textContent.trim();
			if (text) caption = text;
		});
		cards.push({
			onclick: a.getAttribute('onclick') || '',
			thumb_src: img ? (img.getAttribute('src') || '') : '',
			caption: caption,
		});
	});
	return JSON.stringify(cards);
})()
`

// pageButtonsJS reads every pagination button as raw data. The site carries
// the page number in the value attribute; the visible text is a fallback.
const pageButtonsJS = `
(() => {
	const out = [];
	document.querySelectorAll('#pagination-wrapper button.page').forEach(b => {
		out.push({
			value: b.getAttribute('value') || '',
			text: b.textContent.trim(),
		});
	});
	return JSON.stringify(out);
})()
`

// firstCaptionJS fingerprints the current page by its first card so page
// transitions can be detected without a full reload signal.
const firstCaptionJS = `
(() => {
	const a = document.querySelector('#product a');
	if (!a) return '';
	return (a.getAttribute('onclick') || '') + '|' + a.textContent.trim();
})()
`

// Navigator drives the dictionary listing: opening it, switching the page
// size and stepping through numbered pages. Every operation that can stall
// is bounded by the configured wait timeout; hitting that bound is a
// navigation failure, the one class of error that aborts a run.
type Navigator struct {
	session  *Session
	cfg      *config.Config
	log      logger.Logger
	lastPage int
}

// NewNavigator wraps an existing browser session
func NewNavigator(session *Session, cfg *config.Config, log logger.Logger) *Navigator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Navigator{session: session, cfg: cfg, log: log}
}

// Start opens the dictionary listing, sets the page size and waits for the
// first batch of cards. Returns the detected number of pages.
func (n *Navigator) Start(ctx context.Context) (int, error) {
	runCtx, cancel := context.WithTimeout(n.session.Context(), n.cfg.Browser.PageLoadTimeout)
	defer cancel()

	n.log.InfoWithFields("Opening dictionary", map[string]interface{}{
		"url": n.cfg.Site.BaseURL,
	})

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(n.cfg.Site.BaseURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return 0, errors.NewNavigation("failed to open %s: %v", n.cfg.Site.BaseURL, err)
	}

	// Landing on the home page instead of the listing happens when the
	// site redirects; follow its own dictionary link in that case.
	var onListing bool
	_ = chromedp.Run(runCtx, chromedp.Evaluate(`document.querySelector('#product') !== null`, &onListing))
	if !onListing {
		n.log.Debug("Not on the listing yet, following the dictionary link")
		_ = chromedp.Run(runCtx, chromedp.Click(`a[href='/dictionary']`, chromedp.NodeVisible))
	}

	if err := n.setPageSize(runCtx); err != nil {
		n.log.WarnWithFields("Could not set items per page, continuing with site default", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := n.waitForCards(ctx); err != nil {
		return 0, err
	}

	last, err := n.detectLastPage(ctx)
	if err != nil {
		return 0, err
	}
	n.lastPage = last

	n.log.InfoWithFields("Dictionary ready", map[string]interface{}{
		"pages":          last,
		"items_per_page": n.cfg.Site.ItemsPerPage,
	})
	return last, nil
}

// setPageSize selects the configured items-per-page option and triggers the
// site's own search refresh.
func (n *Navigator) setPageSize(ctx context.Context) error {
	js := fmt.Sprintf(`
(() => {
	const sel = document.querySelector('select#group');
	if (!sel) return false;
	sel.value = '%d';
	sel.dispatchEvent(new Event('change', {bubbles: true}));
	if (typeof onSearch === 'function') onSearch();
	return true;
})()
`, n.cfg.Site.ItemsPerPage)

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("page size selector not found")
	}
	return nil
}

// waitForCards polls until at least one card is rendered, bounded by the
// wait timeout.
func (n *Navigator) waitForCards(ctx context.Context) error {
	deadline := time.Now().Add(n.cfg.Browser.WaitTimeout)
	for {
		var count int
		err := chromedp.Run(n.session.Context(),
			chromedp.Evaluate(`document.querySelectorAll('#product a').length`, &count))
		if err == nil && count > 0 {
			return nil
		}

		if time.Now().After(deadline) {
			return errors.NewNavigation("no cards rendered within %s", n.cfg.Browser.WaitTimeout)
		}
		select {
		case <-ctx.Done():
			return errors.NewNavigation("cancelled while waiting for cards: %v", ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// pageButton is one pagination button as read from the bar. The bar mixes
// prev/next arrows with numbered buttons, so either field can be non-numeric.
type pageButton struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// pageNumber extracts the page a button leads to: the value attribute wins,
// the visible text is the fallback for markup that omits it.
func pageNumber(b pageButton) (int, bool) {
	for _, s := range []string{b.Value, b.Text} {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// maxPageNumber finds the highest page any button leads to; no numbered
// buttons means a single page.
func maxPageNumber(buttons []pageButton) int {
	last := 1
	for _, b := range buttons {
		if n, ok := pageNumber(b); ok && n > last {
			last = n
		}
	}
	return last
}

// detectLastPage reads the pagination bar. A listing short enough to have no
// bar is a single page.
func (n *Navigator) detectLastPage(ctx context.Context) (int, error) {
	var raw string
	err := chromedp.Run(n.session.Context(), chromedp.Evaluate(pageButtonsJS, &raw))
	if err != nil {
		return 0, errors.NewNavigation("failed to read pagination: %v", err)
	}

	var buttons []pageButton
	if err := json.Unmarshal([]byte(raw), &buttons); err != nil {
		return 0, errors.NewNavigation("failed to decode pagination: %v", err)
	}
	return maxPageNumber(buttons), nil
}

// LastPage returns the page count detected by Start
func (n *Navigator) LastPage() int {
	return n.lastPage
}

// Cards returns the raw cards on the current page in render order
func (n *Navigator) Cards(ctx context.Context) ([]models.Card, error) {
	var raw string
	if err := chromedp.Run(n.session.Context(), chromedp.Evaluate(cardsJS, &raw)); err != nil {
		return nil, errors.NewNavigation("failed to read cards: %v", err)
	}

	cards, err := models.ParseCards([]byte(raw))
	if err != nil {
		return nil, errors.NewNavigation("failed to decode cards: %v", err)
	}
	return cards, nil
}

// GotoPage clicks the numbered pagination button and waits for the grid to
// show different cards.
func (n *Navigator) GotoPage(ctx context.Context, page int) error {
	var before string
	_ = chromedp.Run(n.session.Context(), chromedp.Evaluate(firstCaptionJS, &before))

	js := fmt.Sprintf(`
(() => {
	const buttons = document.querySelectorAll('#pagination-wrapper button.page');
	for (const b of buttons) {
		const n = (b.getAttribute('value') || '').trim() || b.textContent.trim();
		if (n === '%d') { b.click(); return true; }
	}
	return false;
})()
`, page)

	var clicked bool
	if err := chromedp.Run(n.session.Context(), chromedp.Evaluate(js, &clicked)); err != nil {
		return errors.NewNavigation("failed to click page %d: %v", page, err)
	}
	if !clicked {
		return errors.NewNavigation("page button %d not found", page)
	}

	deadline := time.Now().Add(n.cfg.Browser.WaitTimeout)
	for {
		var after string
		err := chromedp.Run(n.session.Context(), chromedp.Evaluate(firstCaptionJS, &after))
		if err == nil && after != "" && after != before {
			return nil
		}

		if time.Now().After(deadline) {
			return errors.NewNavigation("page %d did not render within %s", page, n.cfg.Browser.WaitTimeout)
		}
		select {
		case <-ctx.Done():
			return errors.NewNavigation("cancelled while loading page %d: %v", page, ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// ExtractViaModal opens the modal for the card at index and reads the video
// source and label from it. Slow, used only when the card markup itself does
// not carry the data.
func (n *Navigator) ExtractViaModal(ctx context.Context, index int) (videoURL, label string, err error) {
	clickJS := fmt.Sprintf(`
(() => {
	const cards = document.querySelectorAll('#product a');
	if (cards.length <= %d) return false;
	cards[%d].click();
	return true;
})()
`, index, index)

	var clicked bool
	if err := chromedp.Run(n.session.Context(), chromedp.Evaluate(clickJS, &clicked)); err != nil || !clicked {
		return "", "", errors.NewExtraction(errors.ReasonMissingVideo)
	}

	readJS := `
(() => {
	const video = document.querySelector('div.modal video, .modal video, video');
	const title = document.querySelector('div.modal h3, div.modal .title, .modal-title');
	return JSON.stringify({
		src: video ? (video.currentSrc || video.getAttribute('src') || '') : '',
		label: title ? title.textContent.trim() : '',
	});
})()
`

	deadline := time.Now().Add(n.cfg.Browser.WaitTimeout)
	for {
		var raw string
		if err := chromedp.Run(n.session.Context(), chromedp.Evaluate(readJS, &raw)); err == nil {
			modal, perr := models.ParseModalContent([]byte(raw))
			if perr == nil && modal.Src != "" {
				n.closeModal()
				url, nerr := NormalizeVideoURL(modal.Src)
				if nerr != nil {
					return "", "", nerr
				}
				if strings.TrimSpace(modal.Label) == "" {
					return "", "", errors.NewExtraction(errors.ReasonMissingLabel)
				}
				return url, strings.TrimSpace(modal.Label), nil
			}
		}

		if time.Now().After(deadline) {
			n.closeModal()
			return "", "", errors.NewExtraction(errors.ReasonMissingVideo)
		}
		select {
		case <-ctx.Done():
			n.closeModal()
			return "", "", errors.NewExtraction(errors.ReasonMissingVideo)
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// closeModal dismisses any open modal, best effort
func (n *Navigator) closeModal() {
	js := `
(() => {
	const close = document.querySelector('div.modal button.close, .modal .close, .modal button');
	if (close) { close.click(); return true; }
	document.body.click();
	return false;
})()
`
	var closed bool
	_ = chromedp.Run(n.session.Context(), chromedp.Evaluate(js, &closed))
}
