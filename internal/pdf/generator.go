package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const rasterizeTimeout = 30 * time.Second

// A4 page geometry in inches. Margins follow the print layout: 10mm top and
// bottom, 12mm left and right.
const (
	paperWidthIn   = 8.27
	paperHeightIn  = 11.69
	marginTopIn    = 0.3937
	marginBottomIn = 0.3937
	marginLeftIn   = 0.4724
	marginRightIn  = 0.4724
)

// GeneratePDFFromHTML renders the HTML in a headless Chromium page and
// returns the PDF bytes. The same HTML always yields the same layout: fonts
// are loaded before printing and the page carries no scripts of its own.
func GeneratePDFFromHTML(htmlContent string) ([]byte, error) {
	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Timeout(rasterizeTimeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	page = page.Timeout(rasterizeTimeout)
	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      floatPtr(paperWidthIn),
		PaperHeight:     floatPtr(paperHeightIn),
		MarginTop:       floatPtr(marginTopIn),
		MarginBottom:    floatPtr(marginBottomIn),
		MarginLeft:      floatPtr(marginLeftIn),
		MarginRight:     floatPtr(marginRightIn),
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	return data, nil
}

func floatPtr(v float64) *float64 { return &v }
