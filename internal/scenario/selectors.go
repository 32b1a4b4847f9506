package scenario

// Dashboard DOM selectors.
// Kept in one place because the dashboard's markup changes between builds.

const (
	// Second button in the top nav. XPath, use with chromedp.BySearch.
	PlaygroundNavXPath = `//*[@id='root']/div/nav/div/button[2]`
	// Text the fallback looks for when the XPath misses
	PlaygroundNavText = "Playground"

	PlaygroundForm = `form`
	NameInput      = `input[type='text']`
	EmailInput     = `input[type='email']`
	MessageInput   = `textarea`
	SubmitButton   = `button[type='submit']`
)

// ScrollToBottomJS scrolls the dashboard so the detection results are in view
const ScrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight);`
