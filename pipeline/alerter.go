package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

// SimpleAlerter consumes flagged analysis results: it annotates and stores
// the source image, then posts a payload to the webhook service. Failed
// webhook posts are retried on a periodic timer.
func SimpleAlerter(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, _ chan interface{}) chan AlertData {
	// The channel is never closed: mode processors may still be sending
	// while the alerter shuts down, and an unconsumed alert at shutdown is
	// simply dropped with the channel.
	in := make(chan AlertData, 100)

	go func() {
		pending := []map[string]interface{}{}

		for {
			select {
			case <-canx.Done():
				lgr.Logger.Info(
					"alerter context cancelled",
				)
				return

			case <-time.After(time.Duration(svcs.CfgSvc.GetAlerterWebhookRetry()) * time.Second):
				// Retry webhooks that failed earlier
				retries := pending
				pending = nil
				for _, payload := range retries {
					if err := svcs.WebhookSvc.Post(payload); err != nil {
						pending = append(pending, payload)
					}
				}

			case alert := <-in:
				annotatedPath, err := annotateResult(svcs, alert)
				if err != nil {
					errorStream <- model.GenError("alerter",
						err,
						map[string]interface{}{"source": alert.Result.Source},
						"error annotating alerted image")
				} else {
					if _, err := svcs.StorageSvc.StoreFile(annotatedPath); err != nil {
						errorStream <- model.GenError("alerter",
							err,
							map[string]interface{}{"file": annotatedPath},
							"error storing annotated image")
					}
				}

				price, err := svcs.PricingSvc.RetrievePrice(alert.Result.Species.Name)
				if err != nil {
					price = model.SpeciesPrice{}
				}

				lgr.Logger.Info(
					"disease alert",
					slog.String("id", alert.Result.ID),
					slog.String("species", alert.Result.Species.Name),
					slog.String("disease", alert.Result.Disease.Name),
					slog.Float64("confidence", float64(alert.Result.Disease.Confidence)),
					slog.Time("timestamp", alert.Timestamp),
				)

				payload := map[string]interface{}{
					"id":             alert.Result.ID,
					"source":         alert.Result.Source,
					"species":        alert.Result.Species.Name,
					"disease":        alert.Result.Disease.Name,
					"confidence":     alert.Result.Disease.Confidence,
					"pricePerKg":     price.PricePerKg,
					"annotatedImage": annotatedPath,
					"timestamp":      time.Now().Format(time.RFC3339),
				}
				if err := svcs.WebhookSvc.Post(payload); err != nil {
					pending = append(pending, payload)
				}
			}
		}
	}()

	return in
}

// annotateResult draws the detection box and labels on the source image and
// writes it to the annotations folder.
func annotateResult(svcs ServicesFactory, alert AlertData) (string, error) {
	mat := gocv.IMRead(alert.ImagePath, gocv.IMReadColor)
	if mat.Empty() {
		return "", fmt.Errorf("error reading image: %s", alert.ImagePath)
	}
	defer mat.Close() // Crucial to close the mat to avoid memory leaks

	box := alert.Result.Box
	rect := image.Rect(
		int(box.XMin*float32(mat.Cols())),
		int(box.YMin*float32(mat.Rows())),
		int(box.XMax*float32(mat.Cols())),
		int(box.YMax*float32(mat.Rows())),
	)

	red := color.RGBA{R: 255, A: 255}
	gocv.Rectangle(&mat, rect, red, 2)
	label := fmt.Sprintf("%s / %s", alert.Result.Species.Name, alert.Result.Disease.Name)
	gocv.PutText(&mat, label, image.Pt(rect.Min.X, rect.Min.Y-6), gocv.FontHersheyPlain, 1.2, red, 2)

	out := fmt.Sprintf("%s/%s_alerted.jpg", svcs.CfgSvc.GetAnnotationsFolder(), alert.Result.ID)
	if ok := gocv.IMWrite(out, mat); !ok {
		return "", fmt.Errorf("error writing annotated image: %s", out)
	}

	return out, nil
}
