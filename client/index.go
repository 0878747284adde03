package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/gaborage/go-algolia/transport"
)

// Index is a handle on one Algolia index
type Index struct {
	name   string
	client *Client
}

// Name returns the index name
func (i *Index) Name() string {
	return i.name
}

// basePath returns the REST path prefix for this index
func (i *Index) basePath() string {
	return "/1/indexes/" + url.PathEscape(i.name)
}

// Search runs a query against the index. opts carries additional search
// parameters (hitsPerPage, filters, ...); their semantics are opaque here.
func (i *Index) Search(ctx context.Context, query string, opts map[string]string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	for k, v := range opts {
		params.Set(k, v)
	}

	resp, err := i.client.dispatcher.Do(ctx, transport.RoleRead, &transport.Request{
		Method: nethttp.MethodPost,
		Path:   i.basePath() + "/query",
		Body:   map[string]string{"params": params.Encode()},
	})
	if err != nil {
		return nil, err
	}

	var out SearchResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Browse iterates the index from the given cursor; pass an empty cursor to
// start from the beginning
func (i *Index) Browse(ctx context.Context, cursor string) (*BrowseResponse, error) {
	path := i.basePath() + "/browse"
	if cursor != "" {
		path += "?cursor=" + url.QueryEscape(cursor)
	}

	resp, err := i.client.dispatcher.Do(ctx, transport.RoleRead, &transport.Request{
		Method: nethttp.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, err
	}

	var out BrowseResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetObject fetches one object by ID
func (i *Index) GetObject(ctx context.Context, objectID string) (map[string]any, error) {
	resp, err := i.client.dispatcher.Do(ctx, transport.RoleRead, &transport.Request{
		Method: nethttp.MethodGet,
		Path:   i.basePath() + "/" + url.PathEscape(objectID),
	})
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddObject indexes an object, letting the service assign the object ID
func (i *Index) AddObject(ctx context.Context, object any) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodPost, i.basePath(), object)
}

// SaveObject indexes an object under an explicit object ID, replacing any
// existing object with that ID
func (i *Index) SaveObject(ctx context.Context, objectID string, object any) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodPut, i.basePath()+"/"+url.PathEscape(objectID), object)
}

// SaveObjects indexes several objects in one batch. Each object must carry
// its objectID field.
func (i *Index) SaveObjects(ctx context.Context, objects []any) (*BatchResponse, error) {
	requests := make([]batchRequest, 0, len(objects))
	for _, object := range objects {
		requests = append(requests, batchRequest{Action: "updateObject", Body: object})
	}

	resp, err := i.client.dispatcher.Do(ctx, transport.RoleWrite, &transport.Request{
		Method: nethttp.MethodPost,
		Path:   i.basePath() + "/batch",
		Body:   map[string]any{"requests": requests},
	})
	if err != nil {
		return nil, err
	}

	var out BatchResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PartialUpdateObject applies a partial update to one object
func (i *Index) PartialUpdateObject(ctx context.Context, objectID string, attributes any) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodPost, i.basePath()+"/"+url.PathEscape(objectID)+"/partial", attributes)
}

// DeleteObject removes one object by ID
func (i *Index) DeleteObject(ctx context.Context, objectID string) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodDelete, i.basePath()+"/"+url.PathEscape(objectID), nil)
}

// DeleteBy removes every object matching the given filter parameters
func (i *Index) DeleteBy(ctx context.Context, params map[string]string) (*TaskResponse, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return i.taskRequest(ctx, nethttp.MethodPost, i.basePath()+"/deleteByQuery", map[string]string{"params": values.Encode()})
}

// Clear removes every object from the index while keeping its settings
func (i *Index) Clear(ctx context.Context) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodPost, i.basePath()+"/clear", nil)
}

// Delete removes the index entirely
func (i *Index) Delete(ctx context.Context) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodDelete, i.basePath(), nil)
}

// GetSettings returns the index settings. The settings schema is opaque to
// this client.
func (i *Index) GetSettings(ctx context.Context) (map[string]any, error) {
	resp, err := i.client.dispatcher.Do(ctx, transport.RoleRead, &transport.Request{
		Method: nethttp.MethodGet,
		Path:   i.basePath() + "/settings",
	})
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSettings updates the index settings
func (i *Index) SetSettings(ctx context.Context, settings any) (*TaskResponse, error) {
	return i.taskRequest(ctx, nethttp.MethodPut, i.basePath()+"/settings", settings)
}

// Move renames the index to destination, overwriting it
func (i *Index) Move(ctx context.Context, destination string) (*TaskResponse, error) {
	return i.operation(ctx, "move", destination)
}

// Copy duplicates the index to destination, overwriting it
func (i *Index) Copy(ctx context.Context, destination string) (*TaskResponse, error) {
	return i.operation(ctx, "copy", destination)
}

// WaitTask blocks until the given task on this index is published
func (i *Index) WaitTask(ctx context.Context, taskID int64) error {
	waiter := transport.NewTaskWaiter(i.client.dispatcher, i.client.config.PollInterval)
	return waiter.Wait(ctx, i.name, taskID)
}

// operation runs a move/copy request against the index
func (i *Index) operation(ctx context.Context, op, destination string) (*TaskResponse, error) {
	if destination == "" {
		return nil, fmt.Errorf("%s: destination index name is required", op)
	}
	return i.taskRequest(ctx, nethttp.MethodPost, i.basePath()+"/operation", map[string]string{
		"operation":   op,
		"destination": destination,
	})
}

// taskRequest dispatches a write and decodes the task acknowledgment
func (i *Index) taskRequest(ctx context.Context, method, path string, body any) (*TaskResponse, error) {
	resp, err := i.client.dispatcher.Do(ctx, transport.RoleWrite, &transport.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var out TaskResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
