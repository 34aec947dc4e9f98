package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func call[Resp any](c *Client, method string, req any) (*Resp, error) {
	var resp Resp
	if err := c.client.Call(ServiceName+"."+method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	return call[StartResponse](c, "Start", StartRequest{})
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	return call[StopResponse](c, "Stop", StopRequest{})
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	return call[StatusResponse](c, "Status", StatusRequest{})
}

// Enqueue adds a download request.
func (c *Client) Enqueue(owner, source string) (*EnqueueResponse, error) {
	return call[EnqueueResponse](c, "Enqueue", EnqueueRequest{Owner: owner, Source: source})
}

// QueueList lists queue items filtered by owner and statuses.
func (c *Client) QueueList(owner string, statuses []string) (*QueueListResponse, error) {
	return call[QueueListResponse](c, "QueueList", QueueListRequest{Owner: owner, Statuses: statuses})
}

// QueueDescribe fetches a single queue item.
func (c *Client) QueueDescribe(id int64) (*QueueDescribeResponse, error) {
	return call[QueueDescribeResponse](c, "QueueDescribe", QueueDescribeRequest{ID: id})
}

// QueueRequeue enqueues fresh copies of finished requests.
func (c *Client) QueueRequeue(ids []int64) (*QueueRequeueResponse, error) {
	return call[QueueRequeueResponse](c, "QueueRequeue", QueueRequeueRequest{IDs: ids})
}

// QueueClear removes finished requests.
func (c *Client) QueueClear(statuses []string) (*QueueClearResponse, error) {
	return call[QueueClearResponse](c, "QueueClear", QueueClearRequest{Statuses: statuses})
}

// QueueHealth returns aggregate queue counts.
func (c *Client) QueueHealth() (*QueueHealthResponse, error) {
	return call[QueueHealthResponse](c, "QueueHealth", QueueHealthRequest{})
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	return call[DatabaseHealthResponse](c, "DatabaseHealth", DatabaseHealthRequest{})
}

// OwnerSet registers or updates an owner.
func (c *Client) OwnerSet(name, directory string) (*OwnerSetResponse, error) {
	return call[OwnerSetResponse](c, "OwnerSet", OwnerSetRequest{Name: name, Directory: directory})
}

// OwnerList lists registered owners.
func (c *Client) OwnerList() (*OwnerListResponse, error) {
	return call[OwnerListResponse](c, "OwnerList", OwnerListRequest{})
}

// OwnerRemove deletes an owner mapping.
func (c *Client) OwnerRemove(name string) (*OwnerRemoveResponse, error) {
	return call[OwnerRemoveResponse](c, "OwnerRemove", OwnerRemoveRequest{Name: name})
}

// TestNotification sends a test notification.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	return call[TestNotificationResponse](c, "TestNotification", TestNotificationRequest{})
}
