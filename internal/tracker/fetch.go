package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Бэкенды перевозчиков режут "ботов" по User-Agent, прикидываемся браузером.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func Do(ctx context.Context, hc *http.Client, method, rawURL string, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("upstream http %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return b, nil
}

func GetBytes(ctx context.Context, hc *http.Client, rawURL string) ([]byte, error) {
	return Do(ctx, hc, http.MethodGet, rawURL, nil, nil)
}

func PostForm(ctx context.Context, hc *http.Client, rawURL string, form url.Values, header http.Header) ([]byte, error) {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	return Do(ctx, hc, http.MethodPost, rawURL, strings.NewReader(form.Encode()), header)
}

func PostJSON(ctx context.Context, hc *http.Client, rawURL string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return Do(ctx, hc, http.MethodPost, rawURL, bytes.NewReader(b), header)
}

func GetDocument(ctx context.Context, hc *http.Client, rawURL string) (*goquery.Document, error) {
	b, err := GetBytes(ctx, hc, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseDocument(b)
}

// GetDocumentEUCKR — для легаси-бэкендов, отдающих страницы в EUC-KR.
func GetDocumentEUCKR(ctx context.Context, hc *http.Client, rawURL string) (*goquery.Document, error) {
	b, err := GetBytes(ctx, hc, rawURL)
	if err != nil {
		return nil, err
	}
	decoded, err := DecodeEUCKR(b)
	if err != nil {
		return nil, err
	}
	return ParseDocument(decoded)
}

func ParseDocument(b []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	return doc, nil
}

func DecodeEUCKR(b []byte) ([]byte, error) {
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), b)
	if err != nil {
		return nil, errors.Wrap(err, "decode euc-kr")
	}
	return out, nil
}
