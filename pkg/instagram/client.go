package instagram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"igresolve/pkg/errors"
	"igresolve/pkg/logger"
	"igresolve/pkg/ratelimit"
)

// defaultUserAgent matches the desktop web client the session cookie
// was issued to.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Client talks to the private web API. Every lookup is a speculative
// enrichment step: a failed request is logged and reported as a soft
// error so page-derived fallbacks can take over.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	appID      string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates an API client. The app id may be empty at
// construction time and set later once it is discovered from the page.
func NewClient(timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
		limiter: limiter,
		logger:  log,
	}
}

// SetAppID sets the X-IG-App-ID header value for subsequent requests
func (c *Client) SetAppID(appID string) {
	c.appID = appID
}

// AppID returns the currently configured app id
func (c *Client) AppID() string {
	return c.appID
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetSessionCookie attaches the session cookie used for authenticated
// lookups. Stories and private profiles require it.
func (c *Client) SetSessionCookie(sessionID, csrfToken string) {
	if sessionID == "" {
		return
	}
	cookie := fmt.Sprintf("sessionid=%s", sessionID)
	if csrfToken != "" {
		cookie += fmt.Sprintf("; csrftoken=%s", csrfToken)
		c.headers["X-CSRFToken"] = csrfToken
	}
	c.headers["Cookie"] = cookie
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	c.limiter.Wait()

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.appID != "" {
		req.Header.Set("X-IG-App-ID", c.appID)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response. Any
// non-200 status becomes a soft remote_fetch_failed error.
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnWithFields("remote lookup rejected", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return &errors.Error{
			Type:    errors.TypeForStatusCode(resp.StatusCode),
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// GetText performs a GET request and returns the response body as a
// string. Used for post page scrapes where the payload is HTML.
func (c *Client) GetText(url string) (string, error) {
	resp, err := c.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnWithFields("page fetch rejected", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return "", &errors.Error{
			Type:    errors.TypeForStatusCode(resp.StatusCode),
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return string(body), nil
}

// FetchReelsMedia looks up a story or highlight tray. A nil response
// with a nil error means the lookup soft-failed.
func (c *Client) FetchReelsMedia(mediaID, postID string) (*MediaInfoResponse, error) {
	url := GetReelsMediaURL(mediaID, postID)

	var response MediaInfoResponse
	if err := c.GetJSON(url, &response); err != nil {
		return nil, c.softenError("reels media", err)
	}
	return &response, nil
}

// FetchMediaInfo looks up a full media record by numeric media id
func (c *Client) FetchMediaInfo(mediaID string) (*MediaInfoResponse, error) {
	url := GetMediaInfoURL(mediaID)

	var response MediaInfoResponse
	if err := c.GetJSON(url, &response); err != nil {
		return nil, c.softenError("media info", err)
	}
	return &response, nil
}

// FetchUserInfo looks up a user record by numeric user id
func (c *Client) FetchUserInfo(userID string) (*MediaInfoResponse, error) {
	url := GetUserInfoURL(userID)

	var response MediaInfoResponse
	if err := c.GetJSON(url, &response); err != nil {
		return nil, c.softenError("user info", err)
	}
	return &response, nil
}

// FetchWebProfile resolves a username to its profile record, including
// the numeric user id. Pasted profile URLs and @-handles are reduced to
// the bare username first; an invalid username soft-fails without a
// request.
func (c *Client) FetchWebProfile(username string) (*WebProfileResponse, error) {
	username = SanitizeUsername(username)
	if !IsValidUsername(username) {
		c.logger.WarnWithFields("skipping profile lookup", map[string]interface{}{
			"username": username,
			"reason":   "invalid username",
		})
		return nil, nil
	}

	url := GetWebProfileURL(username)

	var response WebProfileResponse
	if err := c.GetJSON(url, &response); err != nil {
		return nil, c.softenError("web profile", err)
	}
	return &response, nil
}

// downloadAttempts bounds retries for transient CDN failures. Metadata
// lookups are never retried, but a media download is the final step of
// the pipeline and worth a second try.
const downloadAttempts = 3

// DownloadMedia downloads a media file from the given URL, retrying
// transient failures. The rate limiter paces every attempt.
func (c *Client) DownloadMedia(mediaURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= downloadAttempts; attempt++ {
		data, err := c.downloadOnce(mediaURL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		e, ok := err.(*errors.Error)
		if !ok || !errors.IsRetryableStatusCode(e.Code) {
			return nil, err
		}
		c.logger.WarnWithFields("download failed, retrying", map[string]interface{}{
			"url":     mediaURL,
			"attempt": attempt,
			"error":   e.Message,
		})
	}
	return nil, lastErr
}

func (c *Client) downloadOnce(mediaURL string) ([]byte, error) {
	resp, err := c.Get(mediaURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.Error{
			Type:    errors.TypeForStatusCode(resp.StatusCode),
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to download media: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("downloaded media", map[string]interface{}{
		"url":  mediaURL,
		"size": len(data),
	})

	return data, nil
}

// softenError downgrades rejected lookups to nil errors so callers fall
// back to page-derived data. Network and parse failures stay hard.
func (c *Client) softenError(what string, err error) error {
	if errs, ok := err.(*errors.Error); ok && errors.IsSoft(errs.Type) {
		c.logger.WarnWithFields("lookup unavailable, falling back", map[string]interface{}{
			"lookup": what,
			"error":  errs.Message,
		})
		return nil
	}
	return err
}
