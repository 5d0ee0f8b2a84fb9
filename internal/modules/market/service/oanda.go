package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"signal_dashboard/internal/models"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrNoCandles = errors.New("no candles")

// FetchObserver получает результат каждого запроса свечей (health).
type FetchObserver interface {
	TouchFetch(t time.Time)
	FetchFailed(err error)
}

// OANDAClient — REST v20 candles.
type OANDAClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
	obs     FetchObserver
}

func NewOANDAClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger, obs FetchObserver) *OANDAClient {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &OANDAClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
		obs:     obs,
	}
}

type oandaCandle struct {
	Complete bool   `json:"complete"`
	Time     string `json:"time"`
	Mid      *struct {
		O string `json:"o"`
		H string `json:"h"`
		L string `json:"l"`
		C string `json:"c"`
	} `json:"mid"`
}

type oandaCandlesResp struct {
	Instrument   string        `json:"instrument"`
	Granularity  string        `json:"granularity"`
	Candles      []oandaCandle `json:"candles"`
	ErrorMessage string        `json:"errorMessage"`
}

// Candles returns completed mid-price candles, oldest first.
func (c *OANDAClient) Candles(ctx context.Context, symbol string, tf models.Timeframe, count int) (models.Series, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "market.candles")
	defer span.Finish()
	span.SetTag("symbol", symbol)
	span.SetTag("granularity", string(tf))

	out, err := c.candles(ctx, symbol, tf, count)
	if c.obs != nil {
		if err != nil {
			c.obs.FetchFailed(err)
		} else {
			c.obs.TouchFetch(time.Now())
		}
	}
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("error", err.Error())
		return nil, err
	}
	return out, nil
}

func (c *OANDAClient) candles(ctx context.Context, symbol string, tf models.Timeframe, count int) (models.Series, error) {
	if count <= 0 {
		count = 200
	}
	if tf.Duration() == 0 {
		return nil, fmt.Errorf("unsupported granularity %q", tf)
	}

	q := url.Values{}
	q.Set("granularity", string(tf))
	q.Set("count", strconv.Itoa(count))
	q.Set("price", "M")
	u := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build candles request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept-Datetime-Format", "RFC3339")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "oanda candles %s %s", symbol, tf)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read candles body")
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("oanda error %d: %s", resp.StatusCode, truncate(string(b), 200))
	}

	var r oandaCandlesResp
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "decode candles")
	}

	out := make(models.Series, 0, len(r.Candles))
	for _, cd := range r.Candles {
		// незакрытая свеча не участвует в расчётах
		if !cd.Complete || cd.Mid == nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, cd.Time)
		if err != nil {
			c.log.Debug("skip candle with bad time", zap.String("symbol", symbol), zap.String("time", cd.Time))
			continue
		}
		candle, err := parseMid(ts, cd.Mid.O, cd.Mid.H, cd.Mid.L, cd.Mid.C)
		if err != nil {
			c.log.Debug("skip candle with bad price", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		out = append(out, candle)
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoCandles, "%s %s", symbol, tf)
	}

	// OANDA отдаёт по возрастанию времени, но не полагаемся на это
	sortByTime(out)
	return out, nil
}

func parseMid(ts time.Time, o, h, l, cl string) (models.Candle, error) {
	open, err := strconv.ParseFloat(o, 64)
	if err != nil {
		return models.Candle{}, err
	}
	high, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return models.Candle{}, err
	}
	low, err := strconv.ParseFloat(l, 64)
	if err != nil {
		return models.Candle{}, err
	}
	closep, err := strconv.ParseFloat(cl, 64)
	if err != nil {
		return models.Candle{}, err
	}
	return models.Candle{Time: ts.UTC(), Open: open, High: high, Low: low, Close: closep}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
