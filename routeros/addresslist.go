package routeros

import "context"

const addressListPath = "/ip/firewall/address-list"

// AddToAddressList puts an address on a firewall address list. The
// suspension flow uses list "morosos"; antenna provisioning uses
// "clientes_activos". A non-empty timeout makes the entry expire.
func (c *Client) AddToAddressList(ctx context.Context, list, address, comment, timeout string) (StepResult, error) {
	target := list + "/" + address

	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepAddressList, "add", target, err), err
	}
	defer conn.Close()

	return addAddressListEntry(conn, list, address, comment, timeout)
}

// RemoveFromAddressList deletes the entry matching (list, address).
// A missing entry reports StatusNotFound, not an error.
func (c *Client) RemoveFromAddressList(ctx context.Context, list, address string) (StepResult, error) {
	target := list + "/" + address

	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepAddressList, "remove", target, err), err
	}
	defer conn.Close()

	return removeAddressListEntry(conn, list, address)
}

// ListAddressList returns address-list entries, filtered device-side
// to one list when list is non-empty.
func (c *Client) ListAddressList(ctx context.Context, list string) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if list == "" {
		return printRows(conn, addressListPath)
	}
	return printRows(conn, addressListPath, "?list="+list)
}

func addAddressListEntry(conn apiConn, list, address, comment, timeout string) (StepResult, error) {
	target := list + "/" + address

	words := []string{
		"=list=" + list,
		"=address=" + address,
		"=comment=" + comment,
	}
	if timeout != "" {
		words = append(words, "=timeout="+timeout)
	}

	id, err := runAdd(conn, addressListPath, words...)
	if err != nil {
		return stepError(StepAddressList, "add", target, err), err
	}
	return stepOK(StepAddressList, "add", target, id), nil
}

func removeAddressListEntry(conn apiConn, list, address string) (StepResult, error) {
	target := list + "/" + address

	rows, err := printRows(conn, addressListPath)
	if err != nil {
		return stepError(StepAddressList, "remove", target, err), err
	}

	for _, row := range rows {
		if row["list"] == list && row["address"] == address {
			if err := runRemove(conn, addressListPath, row[".id"]); err != nil {
				return stepError(StepAddressList, "remove", target, err), err
			}
			return stepOK(StepAddressList, "remove", target, row[".id"]), nil
		}
	}
	return stepNotFound(StepAddressList, "remove", target), nil
}
