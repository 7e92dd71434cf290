package mailer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/utils"
)

// Dispatcher fans a published post out to opted-in subscribers. Publication
// only enqueues a job; delivery happens on worker goroutines consuming the
// queue, so provider latency and failures never reach the request path.
type Dispatcher struct {
	db     *gorm.DB
	queue  Queue
	sender Sender
	cfg    config.AppConfig

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

func NewDispatcher(db *gorm.DB, queue Queue, sender Sender, cfg config.AppConfig) *Dispatcher {
	return &Dispatcher{
		db:     db,
		queue:  queue,
		sender: sender,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// PostPublished enqueues a notification job for a post that just went live.
// Enqueue failures are logged and swallowed; the publish itself already
// succeeded and must not be rolled back over mail.
func (d *Dispatcher) PostPublished(post *models.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := Job{ID: uuid.NewString(), PostID: post.ID}
	if err := d.queue.Enqueue(ctx, job); err != nil {
		utils.Sugar.Errorw("notify enqueue failed", "post_id", post.ID, "error", err)
		return
	}
	utils.NotifyJobsEnqueued.Inc()
	utils.Sugar.Infow("notify job enqueued", "post_id", post.ID, "job_id", job.ID)
}

// SendWelcome sends the greeting mail to a new subscriber best-effort on its
// own goroutine; a provider failure is logged and never surfaces.
func (d *Dispatcher) SendWelcome(email, name string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()

		content := WelcomeContent(d.cfg.FrontendURL)
		if err := d.sender.Send(ctx, email, content, map[string]string{"name": name}); err != nil {
			utils.Sugar.Warnw("welcome mail failed", "email", email, "error", err)
		}
	}()
}

// Start launches n worker goroutines consuming the queue.
func (d *Dispatcher) Start(n int) {
	utils.InitMetrics()
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop signals workers to finish their current job and waits for them.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.stop) })
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		default:
		}

		job, ok, err := d.queue.Dequeue(context.Background(), 2*time.Second)
		if err != nil {
			utils.Sugar.Errorw("notify dequeue failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			continue
		}
		d.process(job)
	}
}

func (d *Dispatcher) process(job Job) {
	err := d.deliver(job)
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= d.cfg.NotifyMaxAttempts {
		utils.NotifyJobsFailed.Inc()
		utils.Sugar.Errorw("notify job dropped after max attempts",
			"job_id", job.ID, "post_id", job.PostID, "attempts", job.Attempts, "error", err)
		return
	}

	utils.Sugar.Warnw("notify delivery failed, requeueing",
		"job_id", job.ID, "post_id", job.PostID, "attempts", job.Attempts, "error", err)
	time.Sleep(time.Duration(job.Attempts) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if qerr := d.queue.Enqueue(ctx, job); qerr != nil {
		utils.NotifyJobsFailed.Inc()
		utils.Sugar.Errorw("notify requeue failed", "job_id", job.ID, "error", qerr)
	}
}

func (d *Dispatcher) deliver(job Job) error {
	var post models.Post
	if err := d.db.Preload("Author").First(&post, job.PostID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// deleted between publish and delivery, nothing to do
			return nil
		}
		return fmt.Errorf("load post %d: %w", job.PostID, err)
	}
	if !post.IsPublished {
		// unpublished again before the job ran
		return nil
	}

	recipients, err := d.selectRecipients(&post)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		utils.Sugar.Infow("notify job has no recipients", "post_id", post.ID)
		return nil
	}

	content := NewPostContent(d.cfg.FrontendURL)
	for _, batch := range ChunkRecipients(recipients, d.cfg.NotifyChunkSize) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		jobID, err := d.sender.SendBulk(ctx, content, batch)
		cancel()
		if err != nil {
			return fmt.Errorf("bulk send for post %d: %w", post.ID, err)
		}
		utils.NotifyBatchesSent.Inc()
		utils.Sugar.Infow("notify batch sent",
			"post_id", post.ID, "bulk_job", jobID, "recipients", len(batch))
	}
	return nil
}

// selectRecipients loads active subscribers who opted into new-post alerts,
// excluding the post author's own address.
func (d *Dispatcher) selectRecipients(post *models.Post) ([]Recipient, error) {
	var subs []models.Subscriber
	err := d.db.
		Where("is_active = ? AND receive_new_post_alerts = ?", true, true).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	postURL := fmt.Sprintf("%s/posts/%s", strings.TrimRight(d.cfg.FrontendURL, "/"), post.Slug)
	recipients := make([]Recipient, 0, len(subs))
	for _, sub := range subs {
		if strings.EqualFold(sub.Email, post.Author.Email) {
			continue
		}
		name := sub.Name
		if name == "" {
			name = "there"
		}
		recipients = append(recipients, Recipient{
			Email:   sub.Email,
			Name:    name,
			Title:   post.Title,
			Excerpt: post.Excerpt,
			PostURL: postURL,
		})
	}
	return recipients, nil
}

// ChunkRecipients splits a recipient list into provider-sized batches.
func ChunkRecipients(list []Recipient, size int) [][]Recipient {
	if size < 1 {
		size = 1
	}
	var batches [][]Recipient
	for start := 0; start < len(list); start += size {
		end := start + size
		if end > len(list) {
			end = len(list)
		}
		batches = append(batches, list[start:end])
	}
	return batches
}
