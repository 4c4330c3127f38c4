package serialization

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Unpacker extracts a typed value from a document that has already passed
// the matching shape validator. Unpackers never re-validate the shape.
type Unpacker[T any] func(doc Document) (T, error)

// ValidateAndUnpack checks doc's discriminator against object and, if it
// matches, unpacks it. ObjectNone skips the check.
func ValidateAndUnpack[T any](doc Document, object Object, unpack Unpacker[T]) (T, error) {
	if object != ObjectNone {
		if err := Expect(doc, object); err != nil {
			var zero T
			return zero, err
		}
	}
	return unpack(doc)
}

// UnpackModel unpacks a "model" object.
func UnpackModel(doc Document) (Model, error) {
	var (
		m   Model
		err error
	)

	if m.ID, err = doc.RequireString("id"); err != nil {
		return Model{}, err
	}
	if m.CreatedAt, err = doc.RequireInt("created"); err != nil {
		return Model{}, err
	}
	if m.Owner, err = doc.RequireString("owned_by"); err != nil {
		return Model{}, err
	}
	m.OwnedByPlatform = isPlatformOwner(m.Owner)

	return m, nil
}

// UnpackFile unpacks a "file" object.
func UnpackFile(doc Document) (File, error) {
	var (
		f   File
		err error
	)

	if f.ID, err = doc.RequireString("id"); err != nil {
		return File{}, err
	}
	if f.Filename, err = doc.RequireString("filename"); err != nil {
		return File{}, err
	}
	if f.CreatedAt, err = doc.RequireInt("created_at"); err != nil {
		return File{}, err
	}
	if f.Purpose, err = doc.RequireString("purpose"); err != nil {
		return File{}, err
	}
	if doc.Has("bytes") {
		if f.Bytes, err = doc.RequireInt("bytes"); err != nil {
			return File{}, err
		}
	}

	return f, nil
}

// UnpackFineTuningJob unpacks a "fine_tuning.job" object.
func UnpackFineTuningJob(doc Document) (FineTuningJob, error) {
	var (
		j   FineTuningJob
		err error
	)

	if j.ID, err = doc.RequireString("id"); err != nil {
		return FineTuningJob{}, err
	}
	if j.CreatedAt, err = doc.RequireInt("created_at"); err != nil {
		return FineTuningJob{}, err
	}
	if j.FinishedAt, err = displayTimestamp(doc, "finished_at"); err != nil {
		return FineTuningJob{}, err
	}
	if j.EstimatedFinish, err = displayTimestamp(doc, "estimated_finish"); err != nil {
		return FineTuningJob{}, err
	}
	if j.Model, err = doc.OptionalString("model", Sentinel); err != nil {
		return FineTuningJob{}, err
	}
	if j.Status, err = doc.OptionalString("status", Sentinel); err != nil {
		return FineTuningJob{}, err
	}

	return j, nil
}

// displayTimestamp formats an optional Unix timestamp, or returns Sentinel
// when it is absent or null.
func displayTimestamp(doc Document, field string) (string, error) {
	if !doc.Has(field) {
		return Sentinel, nil
	}
	ts, err := doc.RequireInt(field)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(ts), nil
}

// UnpackUser unpacks an "organization.user" object.
func UnpackUser(doc Document) (User, error) {
	var (
		u   User
		err error
	)

	if u.ID, err = doc.RequireString("id"); err != nil {
		return User{}, err
	}
	if u.Name, err = doc.RequireString("name"); err != nil {
		return User{}, err
	}
	if u.Email, err = doc.RequireString("email"); err != nil {
		return User{}, err
	}
	if u.Role, err = doc.RequireString("role"); err != nil {
		return User{}, err
	}
	if u.AddedAt, err = doc.RequireInt("added_at"); err != nil {
		return User{}, err
	}

	return u, nil
}

// UnpackDeletion unpacks a deletion acknowledgement.
func UnpackDeletion(doc Document) (Deletion, error) {
	var (
		d   Deletion
		err error
	)

	if d.ID, err = doc.RequireString("id"); err != nil {
		return Deletion{}, err
	}
	if d.Deleted, err = doc.RequireBool("deleted"); err != nil {
		return Deletion{}, err
	}
	if d.Object, err = doc.OptionalString("object", ""); err != nil {
		return Deletion{}, err
	}

	return d, nil
}

// UnpackChatCompletionDeletion unpacks a "chat.completion.deleted" object.
func UnpackChatCompletionDeletion(doc Document) (Deletion, error) {
	return UnpackDeletion(doc)
}

// UnpackChatCompletion returns an unpacker for a chat payload laid out
// according to fields.
func UnpackChatCompletion(fields CompletionFields) Unpacker[Completion] {
	return func(doc Document) (Completion, error) {
		c := Completion{Raw: doc.Raw()}

		var err error
		if fields.ID != "" {
			if c.ID, err = doc.RequireString(fields.ID); err != nil {
				return Completion{}, err
			}
		}
		if fields.CreatedRFC3339 {
			c.Created, err = rfc3339Timestamp(doc, fields.Created)
		} else {
			c.Created, err = doc.RequireInt(fields.Created)
		}
		if err != nil {
			return Completion{}, err
		}
		if c.Model, err = doc.RequireString(fields.Model); err != nil {
			return Completion{}, err
		}
		if c.Output, err = doc.RequireString(fields.Output); err != nil {
			return Completion{}, err
		}
		if c.InputTokens, err = tokenCount(doc, fields.InputTokens, fields.TokensOptional); err != nil {
			return Completion{}, err
		}
		if c.OutputTokens, err = tokenCount(doc, fields.OutputTokens, fields.TokensOptional); err != nil {
			return Completion{}, err
		}

		return c, nil
	}
}

func tokenCount(doc Document, field string, optional bool) (int64, error) {
	if optional && !doc.Has(field) {
		return 0, nil
	}
	return doc.RequireInt(field)
}

func rfc3339Timestamp(doc Document, field string) (int64, error) {
	s, err := doc.RequireString(field)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, malformed(doc.join(field), fmt.Errorf("%w: %w", ErrFieldType, err))
	}
	return t.Unix(), nil
}

// UnpackResponse unpacks a "response" object from the responses API. The
// output text is the concatenation of every output_text part of every
// message in the output, in wire order.
func UnpackResponse(doc Document) (Completion, error) {
	c := Completion{Raw: doc.Raw()}

	var err error
	if c.ID, err = doc.RequireString("id"); err != nil {
		return Completion{}, err
	}
	if c.Created, err = doc.RequireInt("created_at"); err != nil {
		return Completion{}, err
	}
	if c.Model, err = doc.RequireString("model"); err != nil {
		return Completion{}, err
	}
	if c.InputTokens, err = doc.RequireInt("usage.input_tokens"); err != nil {
		return Completion{}, err
	}
	if c.OutputTokens, err = doc.RequireInt("usage.output_tokens"); err != nil {
		return Completion{}, err
	}

	items, err := doc.Elements("output")
	if err != nil {
		return Completion{}, err
	}

	var (
		b     strings.Builder
		found bool
	)
	for _, item := range items {
		if item.Get("type").Str != "message" {
			continue
		}
		parts, err := item.Elements("content")
		if err != nil {
			return Completion{}, err
		}
		for _, part := range parts {
			if part.Get("type").Str != "output_text" {
				continue
			}
			text, err := part.RequireString("text")
			if err != nil {
				return Completion{}, err
			}
			b.WriteString(text)
			found = true
		}
	}
	if !found {
		return Completion{}, malformed(doc.join("output"), fmt.Errorf("%w: no output_text", ErrFieldMissing))
	}
	c.Output = b.String()

	return c, nil
}

// UnpackEmbedding returns an unpacker for an embedding payload laid out
// according to fields. The input text is not echoed by the server; the
// caller fills it in.
func UnpackEmbedding(fields EmbeddingFields) Unpacker[Embedding] {
	return func(doc Document) (Embedding, error) {
		var (
			e   Embedding
			err error
		)

		if e.Model, err = doc.RequireString(fields.Model); err != nil {
			return Embedding{}, err
		}
		if e.Vector, err = doc.RequireFloats(fields.Vector); err != nil {
			return Embedding{}, err
		}

		return e, nil
	}
}

// UnpackImage unpacks the first image of an image generation payload,
// which has no discriminator.
func UnpackImage(doc Document) (Image, error) {
	var (
		img Image
		err error
	)

	if img.Created, err = doc.RequireInt("created"); err != nil {
		return Image{}, err
	}

	data, err := doc.Elements("data")
	if err != nil {
		return Image{}, err
	}
	if len(data) == 0 {
		return Image{}, malformed(doc.join("data.0"), ErrFieldMissing)
	}
	first := data[0]

	b64, err := first.RequireString("b64_json")
	if err != nil {
		return Image{}, err
	}
	if img.Data, err = base64.StdEncoding.DecodeString(b64); err != nil {
		return Image{}, malformed(first.join("b64_json"), fmt.Errorf("%w: %w", ErrFieldType, err))
	}
	if img.RevisedPrompt, err = first.OptionalString("revised_prompt", ""); err != nil {
		return Image{}, err
	}

	return img, nil
}

// UnpackCostBucket unpacks one "bucket" of a costs page into one CostBucket
// per result. A bucket without results yields nothing.
func UnpackCostBucket(doc Document) ([]CostBucket, error) {
	start, err := doc.RequireInt("start_time")
	if err != nil {
		return nil, err
	}
	end, err := doc.RequireInt("end_time")
	if err != nil {
		return nil, err
	}

	results, err := doc.Elements("results")
	if err != nil {
		return nil, err
	}

	buckets := make([]CostBucket, 0, len(results))
	for _, r := range results {
		if err := Expect(r, ObjectCostResult); err != nil {
			return nil, err
		}

		cost, err := r.RequireFloat("amount.value")
		if err != nil {
			return nil, err
		}
		org, err := r.OptionalString("organization_id", "")
		if err != nil {
			return nil, err
		}

		buckets = append(buckets, CostBucket{
			Cost:           cost,
			OrganizationID: org,
			StartTime:      start,
			EndTime:        end,
		})
	}

	return buckets, nil
}
