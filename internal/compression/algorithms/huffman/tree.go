package huffman

import (
	"container/heap"
)

type huffmanTree interface {
	getFrequency() uint64
	getId() int
}

type huffmanLeaf struct {
	freq   uint64
	id     int
	symbol byte
}

type huffmanNode struct {
	freq        uint64
	id          int
	left, right huffmanTree
}

func (leaf huffmanLeaf) getFrequency() uint64 {
	return leaf.freq
}

func (leaf huffmanLeaf) getId() int {
	return leaf.id
}

func (node huffmanNode) getFrequency() uint64 {
	return node.freq
}

func (node huffmanNode) getId() int {
	return node.id
}

// huffmanHeap orders by frequency, then by creation id. Leaves get ids in
// first-seen order and internal nodes get ids after every leaf, so equal
// frequencies always resolve the same way.
type huffmanHeap []huffmanTree

func (hub *huffmanHeap) Push(item any) {
	*hub = append(*hub, item.(huffmanTree))
}

func (hub *huffmanHeap) Pop() any {
	popped := (*hub)[len(*hub)-1]
	(*hub) = (*hub)[:len(*hub)-1]
	return popped
}

func (hub huffmanHeap) Len() int {
	return len(hub)
}

func (hub huffmanHeap) Less(i, j int) bool {
	if hub[i].getFrequency() != hub[j].getFrequency() {
		return hub[i].getFrequency() < hub[j].getFrequency()
	}
	return hub[i].getId() < hub[j].getId()
}

func (hub huffmanHeap) Swap(i, j int) {
	hub[i], hub[j] = hub[j], hub[i]
}

// buildTree returns nil for an empty table and a lone leaf for a single
// symbol. The first node popped in each round becomes the left child.
func buildTree(ft *FrequencyTable) huffmanTree {
	if ft.Len() == 0 {
		return nil
	}
	treehub := make(huffmanHeap, 0, ft.Len())
	monoId := 0
	for _, symbol := range ft.order {
		treehub = append(treehub, huffmanLeaf{
			freq:   ft.counts[symbol],
			symbol: symbol,
			id:     monoId,
		})
		monoId++
	}
	heap.Init(&treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(&treehub).(huffmanTree)
		y := heap.Pop(&treehub).(huffmanTree)
		heap.Push(&treehub, huffmanNode{
			freq:  x.getFrequency() + y.getFrequency(),
			left:  x,
			right: y,
			id:    monoId,
		})
		monoId++
	}
	return heap.Pop(&treehub).(huffmanTree)
}

// getSymbolEncoding walks the tree in pre-order, appending '0' on the way
// left and '1' on the way right. A lone leaf at the root gets code "0".
func getSymbolEncoding(tree huffmanTree, symbolEnc map[byte]Code, currentPrefix []byte) {
	switch node := tree.(type) {
	case huffmanLeaf:
		if len(currentPrefix) == 0 {
			symbolEnc[node.symbol] = "0"
			return
		}
		symbolEnc[node.symbol] = Code(currentPrefix)
	case huffmanNode:
		getSymbolEncoding(node.left, symbolEnc, append(currentPrefix, '0'))
		getSymbolEncoding(node.right, symbolEnc, append(currentPrefix, '1'))
	}
}
